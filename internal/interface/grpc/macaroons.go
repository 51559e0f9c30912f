package grpcservice

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/schrodinger-box/boxd/internal/interface/grpc/permissions"
	"github.com/schrodinger-box/boxd/pkg/macaroons"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

var (
	adminMacaroonFile = "admin.macaroon"
	roMacaroonFile    = "readonly.macaroon"

	macFiles = map[string][]bakery.Op{
		adminMacaroonFile: permissions.AdminPermissions(),
		roMacaroonFile:    permissions.ReadOnlyPermissions(),
	}
)

// genMacaroons generates the macaroon files if they don't already exist.
func genMacaroons(
	ctx context.Context, svc *macaroons.Service, datadir string,
) (bool, error) {
	macaroonsToGenerate := make(map[string][]bakery.Op)
	for filename, ops := range macFiles {
		if pathExists(filepath.Join(datadir, filename)) {
			continue
		}
		macaroonsToGenerate[filename] = ops
	}

	if len(macaroonsToGenerate) == 0 {
		return false, nil
	}

	if err := os.MkdirAll(datadir, os.ModeDir|0755); err != nil {
		return false, err
	}

	for macFilename, macPermissions := range macaroonsToGenerate {
		macBytes, err := svc.BakeMacaroon(ctx, macPermissions)
		if err != nil {
			return false, err
		}
		macFile := filepath.Join(datadir, macFilename)
		perms := fs.FileMode(0644)
		if macFilename == adminMacaroonFile {
			perms = 0600
		}
		if err := os.WriteFile(macFile, macBytes, perms); err != nil {
			// nolint:all
			os.Remove(macFile)
			return false, err
		}
	}

	return true, nil
}
