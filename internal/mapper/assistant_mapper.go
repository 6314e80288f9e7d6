package mapper

import (
	"encoding/json"
	"time"

	"redis-copilot-be/internal/entity"
	"redis-copilot-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssistantMapper struct{}

func NewAssistantMapper() *AssistantMapper {
	return &AssistantMapper{}
}

// Message Mappers

func (m *AssistantMapper) MessageToEntity(msg *model.AssistantMessage) *entity.AssistantMessage {
	if msg == nil {
		return nil
	}

	var deletedAt *time.Time
	if msg.DeletedAt.Valid {
		t := msg.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !msg.UpdatedAt.IsZero() {
		t := msg.UpdatedAt
		updatedAt = &t
	}

	var steps []entity.AssistantToolStep
	if len(msg.Steps) > 0 {
		// A malformed steps column degrades to an empty trace instead of
		// failing the whole history load.
		_ = json.Unmarshal(msg.Steps, &steps)
	}

	return &entity.AssistantMessage{
		Id:             msg.Id,
		AccountId:      msg.AccountId,
		DatabaseId:     msg.DatabaseId,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		Steps:          steps,
		CreatedAt:      msg.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      msg.DeletedAt.Valid,
	}
}

func (m *AssistantMapper) MessageToModel(msg *entity.AssistantMessage) *model.AssistantMessage {
	if msg == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if msg.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *msg.DeletedAt, Valid: true}
	} else if msg.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if msg.UpdatedAt != nil {
		updatedAt = *msg.UpdatedAt
	}

	var steps datatypes.JSON
	if len(msg.Steps) > 0 {
		b, _ := json.Marshal(msg.Steps)
		steps = datatypes.JSON(b)
	}

	return &model.AssistantMessage{
		Id:             msg.Id,
		AccountId:      msg.AccountId,
		DatabaseId:     msg.DatabaseId,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		Steps:          steps,
		CreatedAt:      msg.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

// Agreement Mappers

func (m *AssistantMapper) AgreementToEntity(a *model.Agreement) *entity.Agreement {
	if a == nil {
		return nil
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	return &entity.Agreement{
		AccountId: a.AccountId,
		Consent:   a.Consent,
		CreatedAt: a.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *AssistantMapper) AgreementToModel(a *entity.Agreement) *model.Agreement {
	if a == nil {
		return nil
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	return &model.Agreement{
		AccountId: a.AccountId,
		Consent:   a.Consent,
		CreatedAt: a.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *AssistantMapper) DatabaseAgreementToEntity(a *model.DatabaseAgreement) *entity.DatabaseAgreement {
	if a == nil {
		return nil
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	return &entity.DatabaseAgreement{
		AccountId:   a.AccountId,
		DatabaseId:  a.DatabaseId,
		DataConsent: a.DataConsent,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *AssistantMapper) DatabaseAgreementToModel(a *entity.DatabaseAgreement) *model.DatabaseAgreement {
	if a == nil {
		return nil
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	return &model.DatabaseAgreement{
		AccountId:   a.AccountId,
		DatabaseId:  a.DatabaseId,
		DataConsent: a.DataConsent,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

// Database Mappers

func (m *AssistantMapper) DatabaseToEntity(d *model.Database) *entity.Database {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Database{
		Id:        d.Id,
		AccountId: d.AccountId,
		Name:      d.Name,
		Host:      d.Host,
		Port:      d.Port,
		Username:  d.Username,
		Password:  d.Password,
		TLS:       d.TLS,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: d.DeletedAt.Valid,
	}
}

func (m *AssistantMapper) DatabaseToModel(d *entity.Database) *model.Database {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Database{
		Id:        d.Id,
		AccountId: d.AccountId,
		Name:      d.Name,
		Host:      d.Host,
		Port:      d.Port,
		Username:  d.Username,
		Password:  d.Password,
		TLS:       d.TLS,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}
