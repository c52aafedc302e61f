package dto

import (
	"tms/internal/domains/guide/model"
	"tms/shared/constant"
	"tms/shared/timezone"
)

type GuideResponse struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Languages     string `json:"languages"`
	AvailableFrom string `json:"available_from"`
	AvailableTo   string `json:"available_to"`
}

func (r *GuideResponse) FromModel(model model.Guide) {
	r.ID = model.ID
	r.FullName = model.FullName
	r.Email = model.Email
	r.Phone = model.Phone
	r.Languages = model.Languages
	r.AvailableFrom = timezone.Format(model.AvailableFrom, constant.DateOnlyFormat)
	r.AvailableTo = timezone.Format(model.AvailableTo, constant.DateOnlyFormat)
}

type GetAvailableGuidesResponse struct {
	Guides []GuideResponse `json:"guides"`
}

func (r *GetAvailableGuidesResponse) FromModels(models []model.Guide) {
	r.Guides = make([]GuideResponse, len(models))
	for i, mod := range models {
		r.Guides[i].FromModel(mod)
	}
}
