package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidName = errors.New("restaurant name is required")
	ErrSelfParent  = errors.New("restaurant cannot be its own parent")
)

// Restaurant is a chain member. A location has a ParentID naming its chain head.
type Restaurant struct {
	ID        string
	Name      string
	Address   string
	ParentID  string
	CreatedAt time.Time
}

func (r *Restaurant) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.ParentID != "" && r.ParentID == r.ID {
		return ErrSelfParent
	}
	return nil
}

// IsLocation reports whether the restaurant belongs to a parent chain.
func (r *Restaurant) IsLocation() bool { return r.ParentID != "" }
