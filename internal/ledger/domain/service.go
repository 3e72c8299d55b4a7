package domain

import (
	"context"
	"errors"
	"io"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListEntriesRequest struct {
	pagination.Pagination
	PatientID string
}

type ListEntriesResponse struct {
	pagination.PageInfo
	Entries []*Entry `json:"entries"`
	Balance int64    `json:"balance"`
}

type CreateAdjustmentRequest struct {
	PatientID string
	Debit     int64
	Credit    int64
	Reason    string
}

type Service interface {
	// Append chains entry onto the patient's ledger inside the caller's tx.
	Append(ctx context.Context, tx *gorm.DB, entry *Entry) error
	ListByPatient(ctx context.Context, req ListEntriesRequest) (ListEntriesResponse, error)
	CreateAdjustment(ctx context.Context, req CreateAdjustmentRequest) (*Entry, error)
	// ListByBill returns the entries a bill produced, oldest first.
	ListByBill(ctx context.Context, billID snowflake.ID) ([]*Entry, error)
	ExportXLSX(ctx context.Context, patientID string, w io.Writer) error
}

var (
	ErrInvalidClinic    = errors.New("invalid_clinic")
	ErrInvalidPatient   = errors.New("invalid_patient_id")
	ErrInvalidEntryType = errors.New("invalid_entry_type")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidReason    = errors.New("invalid_reason")
	ErrInvalidPageToken = errors.New("invalid_page_token")
)
