package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
	"github.com/fardannozami/ecoscan-bot/internal/logging"
	"github.com/fardannozami/ecoscan-bot/internal/validation"
)

// QRPrefix starts the payload printed on every default QR sticker.
const QRPrefix = "ecoscan:"

// Entry is a catalog action before it is stored.
type Entry struct {
	Code        string
	Title       string
	Description string
	Category    string
	SDGs        []int
	Minutes     int
	Points      int
	// Impact is E (environmental), S (social) or G (governance).
	Impact string
	Steps  []string
	QR     string
}

// impactWeight orders suggestions within a category.
var impactWeight = map[string]float64{
	"E": 0.9,
	"S": 0.7,
	"G": 0.5,
}

// DefaultQR is the payload printed on the sticker for code.
func DefaultQR(code string) string {
	return QRPrefix + code
}

// Activity converts the entry, deriving a code from the title when none is
// set and a QR payload from the code.
func (e Entry) Activity() *domain.Activity {
	code := strings.TrimSpace(e.Code)
	if code == "" {
		code = slug.Make(e.Title)
	}
	qr := strings.TrimSpace(e.QR)
	if qr == "" {
		qr = DefaultQR(code)
	}
	a := &domain.Activity{
		Code:         code,
		Name:         e.Title,
		Description:  e.Description,
		Category:     e.Category,
		RewardPoints: e.Points,
		SDGs:         e.SDGs,
		Steps:        e.Steps,
		QRCodeValue:  qr,
		QValue:       impactWeight[strings.ToUpper(e.Impact)],
		Status:       domain.StatusActive,
	}
	if e.Minutes > 0 {
		mins := e.Minutes
		a.EstimatedMins = &mins
	}
	return a
}

// Seed stores every entry whose code is not yet present. Existing rows,
// including their status, are left alone.
func Seed(ctx context.Context, repo domain.ActivityRepository, entries []Entry) (int, error) {
	created := 0
	for _, e := range entries {
		a := e.Activity()
		if err := validation.Struct(a); err != nil {
			return created, fmt.Errorf("catalog entry %q: %w", a.Code, err)
		}
		ok, err := repo.SeedActivity(ctx, a)
		if err != nil {
			return created, domain.WrapStore("seed activity", err)
		}
		if ok {
			created++
			logging.Debug().Str("code", a.Code).Msg("catalog activity created")
		}
	}
	logging.Info().Int("created", created).Int("total", len(entries)).Msg("catalog seeded")
	return created, nil
}
