package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/query"
)

// Advertisement represents a row in the `advertisements` table.
type Advertisement struct {
	ID               int64     `db:"id"`
	Header           string    `db:"header"`
	OwnerID          int64     `db:"owner_id"`
	RegistrationTime time.Time `db:"registration_time"`
	Description      string    `db:"description"`
}

// AdvertisementView is the public projection returned to callers.
type AdvertisementView struct {
	ID               int64     `json:"id"`
	Header           string    `json:"header"`
	OwnerID          int64     `json:"owner_id"`
	RegistrationTime time.Time `json:"registration_time"`
	Description      string    `json:"description"`
}

func (a *Advertisement) View() AdvertisementView {
	return AdvertisementView{
		ID:               a.ID,
		Header:           a.Header,
		OwnerID:          a.OwnerID,
		RegistrationTime: a.RegistrationTime,
		Description:      a.Description,
	}
}

type AdvertisementFilter struct {
	ID               *int64
	Header           *string
	OwnerID          *int64
	RegistrationTime *time.Time
	Description      *string
}

func (f AdvertisementFilter) Conds() []query.Cond {
	return []query.Cond{
		query.Eq("id", f.ID),
		query.Eq("header", f.Header),
		query.Eq("owner_id", f.OwnerID),
		query.Eq("registration_time", f.RegistrationTime),
		query.Eq("description", f.Description),
	}
}

var AdvertisementFields = query.Fields[Advertisement]{
	"header":      query.String("header", "min=1,max=120", func(a *Advertisement, v string) { a.Header = v }),
	"owner_id":    query.Int64("owner_id", "min=1", func(a *Advertisement, v int64) { a.OwnerID = v }),
	"description": query.String("description", "min=1,max=240", func(a *Advertisement, v string) { a.Description = v }),
}
