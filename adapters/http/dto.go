package http

import (
	"time"

	"github.com/khoahotran/portfolio-api/internal/domain/aboutme"
	"github.com/khoahotran/portfolio-api/internal/domain/application"
	"github.com/khoahotran/portfolio-api/internal/domain/certificate"
	"github.com/khoahotran/portfolio-api/internal/domain/education"
	"github.com/khoahotran/portfolio-api/internal/domain/experience"
)

// Application DTOs

type ApplicationDTO struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Images       []string `json:"images"`
	ProfileImage *string  `json:"profile_image"`
}

type UpdateApplicationRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func ToApplicationDTO(a *application.Application) ApplicationDTO {
	images := a.Images
	if images == nil {
		images = []string{}
	}
	return ApplicationDTO{
		ID:           a.ID,
		Title:        a.Title,
		Description:  a.Description,
		Images:       images,
		ProfileImage: a.ProfileImage,
	}
}

// AboutMe DTOs

type AboutMeDTO struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpsertAboutMeRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func ToAboutMeDTO(a *aboutme.AboutMe) AboutMeDTO {
	return AboutMeDTO{
		Title:       a.Title,
		Description: a.Description,
		UpdatedAt:   a.UpdatedAt,
	}
}

// Education DTOs

type EducationDTO struct {
	ID          int64      `json:"id"`
	School      string     `json:"school"`
	Degree      string     `json:"degree"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

type EducationRequest struct {
	School      string     `json:"school" binding:"required"`
	Degree      string     `json:"degree"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
}

func ToEducationDTO(e *education.Education) EducationDTO {
	return EducationDTO{
		ID:          e.ID,
		School:      e.School,
		Degree:      e.Degree,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		CreatedAt:   e.CreatedAt,
	}
}

func ToEducationDTOs(items []*education.Education) []EducationDTO {
	dtos := make([]EducationDTO, len(items))
	for i, e := range items {
		dtos[i] = ToEducationDTO(e)
	}
	return dtos
}

// Experience DTOs

type ExperienceDTO struct {
	ID          int64      `json:"id"`
	CompanyName string     `json:"company_name"`
	Position    string     `json:"position"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ExperienceRequest struct {
	CompanyName string     `json:"company_name" binding:"required"`
	Position    string     `json:"position" binding:"required"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
}

func ToExperienceDTO(e *experience.Experience) ExperienceDTO {
	return ExperienceDTO{
		ID:          e.ID,
		CompanyName: e.CompanyName,
		Position:    e.Position,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		CreatedAt:   e.CreatedAt,
	}
}

func ToExperienceDTOs(items []*experience.Experience) []ExperienceDTO {
	dtos := make([]ExperienceDTO, len(items))
	for i, e := range items {
		dtos[i] = ToExperienceDTO(e)
	}
	return dtos
}

// Certificate DTOs

type CertificateDTO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Issuer       string    `json:"issuer"`
	Description  string    `json:"description"`
	IssuedAt     time.Time `json:"issued_at"`
	EducationIDs []int64   `json:"education_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

type CertificateRequest struct {
	Name        string    `json:"name" binding:"required"`
	Issuer      string    `json:"issuer" binding:"required"`
	Description string    `json:"description"`
	IssuedAt    time.Time `json:"issued_at"`
}

type SetEducationLinksRequest struct {
	EducationIDs []int64 `json:"education_ids"`
}

func ToCertificateDTO(c *certificate.Certificate) CertificateDTO {
	ids := c.EducationIDs
	if ids == nil {
		ids = []int64{}
	}
	return CertificateDTO{
		ID:           c.ID,
		Name:         c.Name,
		Issuer:       c.Issuer,
		Description:  c.Description,
		IssuedAt:     c.IssuedAt,
		EducationIDs: ids,
		CreatedAt:    c.CreatedAt,
	}
}

func ToCertificateDTOs(items []*certificate.Certificate) []CertificateDTO {
	dtos := make([]CertificateDTO, len(items))
	for i, c := range items {
		dtos[i] = ToCertificateDTO(c)
	}
	return dtos
}
