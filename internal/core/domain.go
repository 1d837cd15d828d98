package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Credit TxType = "credit"
	Debit  TxType = "debit"
)

const (
	MethodUPI        Method = "UPI"
	MethodCash       Method = "Cash"
	MethodNetBanking Method = "Net Banking"
	MethodATM        Method = "ATM"
	MethodCheque     Method = "Cheque"
)

// MaxDescriptionLength bounds the free-text label of a transaction.
const MaxDescriptionLength = 200

type (
	// TxType is the direction of a transaction.
	TxType string

	// Method is the payment channel a transaction went through.
	Method string

	// Transaction is a single ledger entry owned by one user.
	Transaction struct {
		ID          string    `json:"id"`
		UserID      string    `json:"userId"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		Type        TxType    `json:"type"`
		Method      Method    `json:"method"`
		Category    Category  `json:"category,omitempty"`
		Date        Date      `json:"date"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	// Draft carries the caller-supplied fields of a new transaction.
	Draft struct {
		Description string   `json:"description"`
		Amount      Money    `json:"amount"`
		Type        TxType   `json:"type"`
		Method      Method   `json:"method"`
		Category    Category `json:"category,omitempty"`
		Date        Date     `json:"date"`
	}

	// Patch is a partial update; nil fields are left untouched.
	Patch struct {
		Description *string   `json:"description,omitempty"`
		Amount      *Money    `json:"amount,omitempty"`
		Type        *TxType   `json:"type,omitempty"`
		Method      *Method   `json:"method,omitempty"`
		Category    *Category `json:"category,omitempty"`
		Date        *Date     `json:"date,omitempty"`
	}
)

// ErrValidation is wrapped by every field validation error.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidAmount      = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrEmptyDescription   = fmt.Errorf("%w: empty description", ErrValidation)
	ErrDescriptionTooLong = fmt.Errorf("%w: description too long (max %d characters)", ErrValidation, MaxDescriptionLength)
	ErrInvalidType        = fmt.Errorf("%w: invalid transaction type", ErrValidation)
	ErrInvalidMethod      = fmt.Errorf("%w: invalid payment method", ErrValidation)
	ErrZeroDate           = fmt.Errorf("%w: date cannot be zero", ErrValidation)
	ErrEmptyOwner         = fmt.Errorf("%w: empty owner id", ErrValidation)
)

// Methods lists the accepted payment channels in display order.
func Methods() []Method {
	return []Method{MethodUPI, MethodCash, MethodNetBanking, MethodATM, MethodCheque}
}

func (t TxType) Validate() error {
	switch t {
	case Credit, Debit:
		return nil
	default:
		return ErrInvalidType
	}
}

func (m Method) Validate() error {
	for _, known := range Methods() {
		if m == known {
			return nil
		}
	}
	return ErrInvalidMethod
}

// Signed returns the amount with the sign implied by the transaction type.
func (t Transaction) Signed() int64 {
	if t.Type == Credit {
		return t.Amount.Cents
	}
	return -t.Amount.Cents
}

// Validate checks the invariants every stored transaction must hold.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyOwner
	}
	return t.Draft().Validate()
}

// Draft returns the caller-editable part of the transaction.
func (t Transaction) Draft() Draft {
	return Draft{
		Description: t.Description,
		Amount:      t.Amount,
		Type:        t.Type,
		Method:      t.Method,
		Category:    t.Category,
		Date:        t.Date,
	}
}

// Normalize trims the description and folds unknown categories into Others.
func (d Draft) Normalize() Draft {
	d.Description = strings.TrimSpace(d.Description)
	d.Category = d.Category.Normalize()
	return d
}

func (d Draft) Validate() error {
	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		return ErrEmptyDescription
	}
	if len([]rune(desc)) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if err := d.Type.Validate(); err != nil {
		return err
	}
	if err := d.Method.Validate(); err != nil {
		return err
	}
	return d.Date.Validate()
}

// Apply merges the non-nil patch fields onto t. Bookkeeping fields are not touched.
func (p Patch) Apply(t Transaction) Transaction {
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Method != nil {
		t.Method = *p.Method
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	return t
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Description == nil && p.Amount == nil && p.Type == nil &&
		p.Method == nil && p.Category == nil && p.Date == nil
}

// CanEdit reports whether t may still be edited at now: only transactions
// dated in the current calendar month (and year) are editable.
func CanEdit(t Transaction, now time.Time) bool {
	return t.Date.InMonth(now.Year(), int(now.Month()))
}
