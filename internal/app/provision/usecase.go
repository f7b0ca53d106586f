package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agnivade/levenshtein"

	"frostbot/internal/app/ports"
	"frostbot/internal/domain/minigame"
)

// ErrGearMissing aborts the run before the main loop starts. The error
// text names every capability still unmet after bank recovery.
var ErrGearMissing = errors.New("required gear missing")

const defaultMinWarmGear = 4

// UseCase verifies the capability set once at startup and drives the
// bank-withdrawal recovery for anything missing.
type UseCase struct {
	Client      ports.GameClient
	Logger      *slog.Logger
	FletchRoots bool
	MinWarmGear int
}

// EnsureReady returns nil when every hard requirement is satisfied.
// The warm-gear count is a soft requirement: short counts are warned
// about, never fatal.
func (u UseCase) EnsureReady(ctx context.Context) error {
	logger := u.Logger
	if logger == nil {
		logger = slog.Default()
	}
	minWarm := u.MinWarmGear
	if minWarm <= 0 {
		minWarm = defaultMinWarmGear
	}

	if worn := u.countWarmGear(ctx); worn < minWarm {
		logger.Warn("wearing less warm gear than recommended", "worn", worn, "recommended", minWarm)
	}

	missing, err := u.missingHardRequirements(ctx)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}

	logger.Info("recovering missing gear from bank", "missing", requirementNames(missing))
	if err := u.recoverFromBank(ctx, missing, logger); err != nil {
		return err
	}

	missing, err = u.missingHardRequirements(ctx)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrGearMissing, strings.Join(requirementNames(missing), ", "))
	}
	return nil
}

func (u UseCase) countWarmGear(ctx context.Context) int {
	worn := 0
	for _, item := range minigame.WarmGearItems {
		if equipped, err := u.Client.IsEquipped(ctx, item); err == nil && equipped {
			worn++
		}
	}
	return worn
}

func (u UseCase) missingHardRequirements(ctx context.Context) ([]minigame.GearRequirement, error) {
	counts, err := u.Client.InventoryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory query: %w", err)
	}

	var missing []minigame.GearRequirement
	for _, req := range minigame.RequiredGear(u.FletchRoots) {
		if !req.Hard {
			continue
		}
		if u.satisfied(ctx, req, counts) {
			continue
		}
		missing = append(missing, req)
	}
	return missing, nil
}

func (u UseCase) satisfied(ctx context.Context, req minigame.GearRequirement, counts map[int]int) bool {
	for _, item := range req.Items {
		if counts[item] > 0 {
			return true
		}
		if req.Equipped {
			if equipped, err := u.Client.IsEquipped(ctx, item); err == nil && equipped {
				return true
			}
		}
	}
	return false
}

func (u UseCase) recoverFromBank(ctx context.Context, missing []minigame.GearRequirement, logger *slog.Logger) error {
	if err := u.Client.OpenBank(ctx); err != nil {
		return fmt.Errorf("open bank: %w", err)
	}
	defer func() { _ = u.Client.CloseBank(ctx) }()

	for _, req := range missing {
		rows, err := u.Client.SearchBank(ctx, req.Name)
		if err != nil {
			return fmt.Errorf("bank search %q: %w", req.Name, err)
		}
		slot, ok := bestMatch(req.Name, rows)
		if !ok {
			logger.Warn("no bank match for requirement", "requirement", req.Name)
			continue
		}
		if err := u.Client.WithdrawSlot(ctx, slot, 1); err != nil {
			return fmt.Errorf("withdraw %q: %w", req.Name, err)
		}
		// Clear the search box before the next query.
		_ = u.Client.PressKey(ctx, "ESC")
		logger.Info("withdrew requirement", "requirement", req.Name)
	}
	return nil
}

// bestMatch picks the search row closest to the requirement name. Bank
// rows carry display names ("Rune axe", "Hammer"), so the match is
// fuzzy with a distance budget scaled to the query length.
func bestMatch(query string, rows []ports.BankEntry) (int, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	bestSlot, bestDist := 0, -1
	for _, row := range rows {
		name := strings.ToLower(strings.TrimSpace(row.Name))
		dist := levenshtein.ComputeDistance(query, name)
		if strings.Contains(name, query) {
			// A containing name is always acceptable however long it is.
			dist = 0
		}
		if dist > distanceLimit(len(query)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			bestSlot, bestDist = row.Slot, dist
		}
	}
	return bestSlot, bestDist >= 0
}

func distanceLimit(length int) int {
	limit := length / 4
	if limit < 1 {
		limit = 1
	}
	return limit
}

func requirementNames(reqs []minigame.GearRequirement) []string {
	names := make([]string, 0, len(reqs))
	for _, req := range reqs {
		names = append(names, req.Name)
	}
	return names
}
