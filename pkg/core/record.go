package core

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// DefaultOpacity is the opacity of a freshly created record and of labels without one.
const DefaultOpacity = 0.5

// Record is the customization attached to one region.
// It is a plain value: it never points back to a region, an anchor or a container.
type Record struct {
	CustomName        string  `json:"customName" yaml:"customName"`
	CustomDescription string  `json:"customDescription" yaml:"customDescription"`
	CustomColor       *Color  `json:"customColor,omitempty" yaml:"customColor,omitempty"`
	Offset            Vec2    `json:"offset" yaml:"offset"`
	Hidden            bool    `json:"hidden" yaml:"hidden"`
	FontSize          int     `json:"fontSize" yaml:"fontSize" validate:"gte=0,lte=60"`
	Opacity           float64 `json:"opacity" yaml:"opacity" validate:"gt=0,lte=1"`
	ShowIcon          bool    `json:"showIcon" yaml:"showIcon"`
}

// NewRecord returns a record holding the defaults.
func NewRecord() *Record {
	r := &Record{}
	r.Reset()
	return r
}

// Reset restores the defaults in place, keeping the record's identity.
func (r *Record) Reset() {
	*r = Record{
		Opacity:  DefaultOpacity,
		ShowIcon: true,
	}
}

// HasText reports whether the record carries a name or a description.
// Only such records are worth recovering from anchors.
func (r *Record) HasText() bool {
	return r != nil && (r.CustomName != "" || r.CustomDescription != "")
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.CustomColor != nil {
		col := *r.CustomColor
		c.CustomColor = &col
	}
	return &c
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks the field ranges.
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if err := validatorInstance().Struct(r); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	return nil
}
