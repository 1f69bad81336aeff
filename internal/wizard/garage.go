package wizard

import (
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/pow3r/cashout/pkg/cashout/domain"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

// Fingerprint identifies a listing by its normalised content so that
// confirming the same listing twice yields one garage item.
func Fingerprint(title, price string, platforms, tags []string) string {
	norm := func(list []string) string {
		out := make([]string, 0, len(list))
		for _, v := range list {
			out = append(out, strings.ToLower(strings.TrimSpace(v)))
		}
		sort.Strings(out)
		return strings.Join(out, ",")
	}
	payload := strings.Join([]string{
		strings.ToLower(strings.Join(strings.Fields(title), " ")),
		price,
		norm(platforms),
		norm(tags),
	}, "\x00")
	sum := blake2b.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// GarageItemFromFlow builds the listing recorded when a flow is confirmed.
func GarageItemFromFlow(f *domain.PostFlow, now time.Time) *domain.GarageItem {
	vars := Vars(f)
	price, err := NormalizePrice(vars[VarPrice])
	if err != nil {
		price = "0.00"
	}
	platforms := SplitList(vars[VarPlatforms])
	tags := SplitList(vars[VarTags])
	title := strings.TrimSpace(vars[VarTitle])
	return &domain.GarageItem{
		FlowID:      f.ID,
		Title:       title,
		Description: strings.TrimSpace(vars[VarDescription]),
		Price:       price,
		Platforms:   platforms,
		Tags:        tags,
		Status:      models.GarageStatusPosted,
		Fingerprint: Fingerprint(title, price, platforms, tags),
		Created:     now,
	}
}
