package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/terraincognita07/mindharbor/internal/db"
	"go.uber.org/zap"
)

// RunForgetDeviceCommand drops everything stored locally for one device: its
// sealed access token, onboarding flag and questionnaire draft.
func RunForgetDeviceCommand(dbPath string, deviceID string, out io.Writer, logger *zap.Logger) error {
	normalizedID := strings.TrimSpace(deviceID)
	if normalizedID == "" {
		return errors.New("device id is required")
	}
	parsed, err := uuid.Parse(normalizedID)
	if err != nil {
		return fmt.Errorf("invalid device id: %w", err)
	}

	database, err := db.OpenSQLite(dbPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	removed, err := db.NewRepositories(database).DeviceEntries.DeleteDevice(parsed.String())
	if err != nil {
		return fmt.Errorf("delete device entries: %w", err)
	}

	if removed == 0 {
		fmt.Fprintf(out, "Nothing stored for device %s\n", parsed)
		return nil
	}
	fmt.Fprintf(out, "Forgot device %s (%d entries removed)\n", parsed, removed)
	return nil
}
