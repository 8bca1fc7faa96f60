package shipping

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
)

// ServiceOption describes a courier offering with its flat-rate cost.
type ServiceOption struct {
	Code string          `json:"code"`
	Name string          `json:"name"`
	Cost decimal.Decimal `json:"cost"`
	ETA  string          `json:"eta"`
}

var serviceOptions = []ServiceOption{
	{Code: "jne", Name: "JNE", Cost: decimal.NewFromInt(15000), ETA: "2-3 days"},
	{Code: "jnt", Name: "J&T Express", Cost: decimal.NewFromInt(12000), ETA: "2-4 days"},
	{Code: "sicepat", Name: "SiCepat", Cost: decimal.NewFromInt(13000), ETA: "1-3 days"},
	{Code: "pos", Name: "Pos Indonesia", Cost: decimal.NewFromInt(10000), ETA: "3-5 days"},
}

// Service resolves courier codes into rate quotes.
type Service interface {
	ListServices() []ServiceOption
	Lookup(code string) (ServiceOption, error)
}

type service struct{}

// NewService builds the flat-rate shipping service.
func NewService() Service {
	return &service{}
}

// ListServices returns every available courier in a stable order.
func (s *service) ListServices() []ServiceOption {
	out := make([]ServiceOption, len(serviceOptions))
	copy(out, serviceOptions)
	return out
}

// Lookup resolves a courier code to its option. Codes are matched
// case-insensitively after trimming whitespace.
func (s *service) Lookup(code string) (ServiceOption, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	for _, option := range serviceOptions {
		if option.Code == normalized {
			return option, nil
		}
	}
	return ServiceOption{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown shipping service "+code)
}
