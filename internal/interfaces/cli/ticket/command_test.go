package ticket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketd/internal/application/ticket/dto"
	"ticketd/internal/domain/customer"
	"ticketd/internal/domain/order"
	"ticketd/internal/infrastructure/database"
	"ticketd/internal/infrastructure/migration"
	"ticketd/internal/infrastructure/repository"
	sharedConfig "ticketd/internal/shared/config"
	"ticketd/internal/shared/logger"
)

// setupWorkspace creates a migrated SQLite file holding two customers and one order
// for two units of product 7 and one of product 8, and a config file pointing at it.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "tickets.db")

	db, err := database.Open(&sharedConfig.DatabaseConfig{Driver: "sqlite", Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, migration.NewGooseStrategy(logger.NewNopLogger()).Migrate(db))

	ctx := context.Background()
	customers := repository.NewCustomerRepository(db)
	for _, name := range []string{"ada", "grace"} {
		c, err := customer.NewCustomer(name, name+"@example.org")
		require.NoError(t, err)
		require.NoError(t, customers.Save(ctx, c))
	}

	o, err := order.NewOrder(1, []order.OrderProduct{{ProductID: 7, Amount: 2}, {ProductID: 8, Amount: 1}})
	require.NoError(t, err)
	require.NoError(t, repository.NewOrderRepository(db).Save(ctx, o))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(`
database:
  driver: sqlite
  path: %s
logger:
  level: error
  output_path: stderr
notification:
  channels: []
`, dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath
}

func runTicket(t *testing.T, cfgPath string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCommand()
	cmd.SetArgs(append(args, "--config", cfgPath, "--env", "test"))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeTickets(t *testing.T, out string) []dto.TicketDTO {
	t.Helper()
	var tickets []dto.TicketDTO
	require.NoError(t, json.Unmarshal([]byte(out), &tickets))
	return tickets
}

func TestTicketCommand_Lifecycle(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, _, err := runTicket(t, cfgPath, "issue", "--order", "1", "-o", "json")
	require.NoError(t, err)
	issued := decodeTickets(t, out)
	require.Len(t, issued, 3)

	_, stderr, err := runTicket(t, cfgPath, "issue", "--order", "1", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "already issued")

	out, _, err = runTicket(t, cfgPath, "list", "--order", "1", "-o", "json")
	require.NoError(t, err)
	assert.Len(t, decodeTickets(t, out), 3)

	key := issued[0].Key
	oldCode := issued[0].UniqueCode

	out, _, err = runTicket(t, cfgPath, "transfer", "--key", key, "--from", "1", "--to", "2", "-o", "json")
	require.NoError(t, err)
	transferred := decodeTickets(t, out)
	require.Len(t, transferred, 1)
	assert.Equal(t, uint(2), transferred[0].OwnerID)
	assert.NotEqual(t, oldCode, transferred[0].UniqueCode)

	_, _, err = runTicket(t, cfgPath, "get", "--product", fmt.Sprint(issued[0].ProductID), "--code", oldCode)
	assert.Error(t, err, "old code no longer resolves")

	out, _, err = runTicket(t, cfgPath, "status", "--key", key, "--set", "scanned", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "scanned", decodeTickets(t, out)[0].Status)

	_, _, err = runTicket(t, cfgPath, "status", "--key", key, "--set", "open")
	assert.Error(t, err)

	pngPath := filepath.Join(t.TempDir(), "ticket.png")
	_, _, err = runTicket(t, cfgPath, "qrcode", "--key", key, "--out", pngPath)
	require.NoError(t, err)
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)

	out, _, err = runTicket(t, cfgPath, "delete-by-order", "--order", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 3 tickets")
}

func TestTicketCommand_TransferRejected(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, _, err := runTicket(t, cfgPath, "issue", "--order", "1", "-o", "json")
	require.NoError(t, err)
	key := decodeTickets(t, out)[0].Key

	_, _, err = runTicket(t, cfgPath, "transfer", "--key", key, "--from", "2", "--to", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner_mismatch")
}
