package dto

import "github.com/google/uuid"

type GetAgreementResponse struct {
	Consent bool `json:"consent"`
}

type UpdateAgreementRequest struct {
	Consent *bool `json:"consent" validate:"required"`
}

type UpdateAgreementResponse struct {
	Consent bool `json:"consent"`
}

type GetDatabaseAgreementResponse struct {
	DatabaseId  uuid.UUID `json:"database_id"`
	DataConsent bool      `json:"data_consent"`
}

type UpdateDatabaseAgreementRequest struct {
	DatabaseId  uuid.UUID
	DataConsent *bool `json:"data_consent" validate:"required"`
}

type UpdateDatabaseAgreementResponse struct {
	DatabaseId  uuid.UUID `json:"database_id"`
	DataConsent bool      `json:"data_consent"`
}
