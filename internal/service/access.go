package service

import (
	"errors"
	"os"

	"github.com/muratoffalex/tgchecker/internal/config"
	"github.com/muratoffalex/tgchecker/internal/logger"
)

// Access knows the bot owners and admins.
type Access struct {
	owners map[int64]struct{}
	admins map[int64]struct{}
}

// NewAccess merges the configured id lists with the optional id files.
func NewAccess(cfg config.TelegramConfig, l logger.Logger) *Access {
	a := &Access{
		owners: make(map[int64]struct{}),
		admins: make(map[int64]struct{}),
	}
	a.add(a.owners, cfg.Owners)
	a.add(a.admins, cfg.Admins)
	a.add(a.owners, loadIDs(cfg.OwnersFile, "owners", l))
	a.add(a.admins, loadIDs(cfg.AdminsFile, "admins", l))

	l.WithFields(logger.Fields{
		"owners": len(a.owners),
		"admins": len(a.admins),
	}).Info("Access lists loaded")
	return a
}

func (a *Access) IsOwner(userID int64) bool {
	_, ok := a.owners[userID]
	return ok
}

func (a *Access) IsAdmin(userID int64) bool {
	_, ok := a.admins[userID]
	return ok
}

// IsPrivileged reports owners and admins.
func (a *Access) IsPrivileged(userID int64) bool {
	return a.IsOwner(userID) || a.IsAdmin(userID)
}

func (a *Access) add(set map[int64]struct{}, ids []int64) {
	for _, id := range ids {
		set[id] = struct{}{}
	}
}

func loadIDs(path, list string, l logger.Logger) []int64 {
	if path == "" {
		return nil
	}
	log := l.WithFields(logger.Fields{
		"list": list,
		"file": path,
	})

	ids, skipped, err := config.LoadIDsFromFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn("Id file not found, using config list only")
		return nil
	}
	if err != nil {
		log.WithError(err).Error("Failed to read id file")
		return ids
	}
	for _, line := range skipped {
		log.WithField("line", line).Warn("Skipping invalid id")
	}
	return ids
}
