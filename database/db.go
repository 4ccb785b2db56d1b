package database

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/mysql"
	_ "github.com/golang-migrate/migrate/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sisu-network/lib/log"

	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

// Database persists transfer verdicts and classified errors so that the
// history survives a restart.
type Database interface {
	Init() error
	Close() error

	SaveOutcome(tx *types.TrackedTransaction)
	LoadOutcome(chain, reference string) (*types.TrackedTransaction, error)

	SaveError(ce *types.ClassifiedError)
	LoadRecentErrors(limit int) ([]*types.ClassifiedError, error)
}

// A struct for saving outcomes into database.
type saveOutcomeRequest struct {
	tx *types.TrackedTransaction
}

type DefaultDatabase struct {
	cfg           *config.Argus
	db            *sql.DB
	saveOutcomeCh chan *saveOutcomeRequest

	// Guards closed so that a SaveOutcome racing Close never sends on the
	// closed channel.
	lock   *sync.Mutex
	closed bool
}

type dbLogger struct {
}

func (logger *dbLogger) Printf(format string, v ...interface{}) {
	log.Infof(format, v...)
}

func (logger *dbLogger) Verbose() bool {
	return false
}

func NewDb(cfg *config.Argus) Database {
	return &DefaultDatabase{
		cfg:           cfg,
		saveOutcomeCh: make(chan *saveOutcomeRequest),
		lock:          &sync.Mutex{},
	}
}

func (d *DefaultDatabase) Connect() error {
	if d.cfg.InMemory {
		database, err := sql.Open("sqlite3", ":memory:")
		if err != nil {
			return err
		}

		d.db = database
		return nil
	}

	host := d.cfg.DbHost
	if host == "" {
		return fmt.Errorf("DB host cannot be empty")
	}

	port := d.cfg.DbPort
	username := d.cfg.DbUsername
	password := d.cfg.DbPassword
	schema := d.cfg.DbSchema

	// Connect to the db
	url := fmt.Sprintf("%s:%s@tcp(%s:%d)/", username, password, host, port)
	database, err := sql.Open("mysql", url)
	if err != nil {
		return err
	}
	_, err = database.Exec("CREATE DATABASE IF NOT EXISTS " + schema)
	if err != nil {
		return err
	}
	database.Close()

	database, err = sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", username, password, host, port, schema))
	if err != nil {
		return err
	}

	d.db = database
	log.Info("Db is connected successfully")
	return nil
}

func (d *DefaultDatabase) DoMigration() error {
	if d.cfg.InMemory {
		// sqlite runs the schema directly, migrate has no mysql dialect there.
		for _, stmt := range sqliteSchema {
			if _, err := d.db.Exec(stmt); err != nil {
				return err
			}
		}

		return nil
	}

	driver, err := mysql.WithInstance(d.db, &mysql.Config{})
	if err != nil {
		return err
	}

	migrationDir, err := writeMigrations()
	if err != nil {
		return err
	}
	defer os.RemoveAll(migrationDir)

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationDir),
		"mysql",
		driver,
	)
	if err != nil {
		return err
	}

	m.Log = &dbLogger{}
	m.Up()

	return nil
}

func (d *DefaultDatabase) Init() error {
	err := d.Connect()
	if err != nil {
		log.Error("Failed to connect to DB. Err =", err)
		return err
	}

	err = d.DoMigration()
	if err != nil {
		return err
	}

	go d.listen()

	return nil
}

func (d *DefaultDatabase) Close() error {
	d.lock.Lock()
	if !d.closed {
		d.closed = true
		close(d.saveOutcomeCh)
	}
	d.lock.Unlock()

	return d.db.Close()
}

// Listen to requests to save into database.
func (d *DefaultDatabase) listen() {
	for req := range d.saveOutcomeCh {
		err := d.doSaveOutcome(req.tx)
		if err != nil {
			log.Error("Cannot save outcome into db, err = ", err)
		}
	}
}

func (d *DefaultDatabase) doSaveOutcome(tx *types.TrackedTransaction) error {
	reference := tx.Reference
	if len(reference) > 256 {
		reference = reference[:256]
	}

	errorKind := ""
	errorMessage := ""
	if tx.LastError != nil {
		errorKind = string(tx.LastError.Kind)
		errorMessage = tx.LastError.Error()
	}

	_, err := d.db.Exec(
		"REPLACE INTO transfer_outcomes (chain, tx_ref, status, confirmations, block_ref, error_kind, error_message, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		tx.Chain, reference, string(tx.Status), tx.Confirmations, tx.BlockRef,
		errorKind, errorMessage, time.Now().UnixMilli())

	return err
}

func (d *DefaultDatabase) SaveOutcome(tx *types.TrackedTransaction) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.closed {
		log.Warnf("Dropping outcome for tx %s, the database is closed", tx.Reference)
		return
	}

	d.saveOutcomeCh <- &saveOutcomeRequest{tx: tx}
}

func (d *DefaultDatabase) LoadOutcome(chain, reference string) (*types.TrackedTransaction, error) {
	rows, err := d.db.Query(
		"SELECT status, confirmations, block_ref, error_kind, error_message FROM transfer_outcomes WHERE chain=? AND tx_ref=?",
		chain, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}

	var status, blockRef, errorKind, errorMessage string
	var confirmations int
	if err := rows.Scan(&status, &confirmations, &blockRef, &errorKind, &errorMessage); err != nil {
		return nil, err
	}

	tx := &types.TrackedTransaction{
		Reference:     reference,
		Chain:         chain,
		Status:        types.TxStatus(status),
		Confirmations: confirmations,
		BlockRef:      blockRef,
	}
	if errorKind != "" {
		tx.LastError = &types.ClassifiedError{
			Kind:    types.ErrorKind(errorKind),
			Chain:   chain,
			Message: errorMessage,
		}
	}

	return tx, nil
}

func (d *DefaultDatabase) SaveError(ce *types.ClassifiedError) {
	if ce == nil {
		return
	}

	_, err := d.db.Exec(
		"INSERT INTO classified_errors (chain, kind, severity, retryable, recovery_action, message, raw, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		ce.Chain, string(ce.Kind), ce.Severity.String(), ce.Retryable,
		ce.RecoveryAction, ce.Message, ce.Raw, time.Now().UnixMilli())
	if err != nil {
		log.Error("Cannot insert classified error, err = ", err)
	}
}

func (d *DefaultDatabase) LoadRecentErrors(limit int) ([]*types.ClassifiedError, error) {
	rows, err := d.db.Query(
		"SELECT chain, kind, severity, retryable, recovery_action, message, raw FROM classified_errors ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*types.ClassifiedError, 0)
	for rows.Next() {
		var chain, kind, severity, action, message, raw string
		var retryable bool
		if err := rows.Scan(&chain, &kind, &severity, &retryable, &action, &message, &raw); err != nil {
			return nil, err
		}

		result = append(result, &types.ClassifiedError{
			Kind:           types.ErrorKind(kind),
			Severity:       parseSeverity(severity),
			Retryable:      retryable,
			RecoveryAction: action,
			Chain:          chain,
			Message:        message,
			Raw:            raw,
		})
	}

	return result, nil
}

func parseSeverity(s string) types.Severity {
	switch s {
	case "low":
		return types.SeverityLow
	case "medium":
		return types.SeverityMedium
	case "high":
		return types.SeverityHigh
	case "critical":
		return types.SeverityCritical
	default:
		return types.SeverityLow
	}
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

// writeMigrations copies the embedded migration files into a fresh temp
// directory so that migrate can read them from disk. The caller removes the
// directory once the migration ran.
func writeMigrations() (string, error) {
	tmpDir, err := os.MkdirTemp("", "argus-migrations-*")
	if err != nil {
		return "", err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		content, err := migrationsFS.ReadFile(path.Join("migrations", entry.Name()))
		if err != nil {
			return "", err
		}

		if err := os.WriteFile(filepath.Join(tmpDir, entry.Name()), content, 0600); err != nil {
			return "", err
		}
	}

	return tmpDir, nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS transfer_outcomes (
		chain TEXT NOT NULL,
		tx_ref TEXT NOT NULL,
		status TEXT NOT NULL,
		confirmations INTEGER NOT NULL DEFAULT 0,
		block_ref TEXT,
		error_kind TEXT,
		error_message TEXT,
		finished_at INTEGER,
		PRIMARY KEY (chain, tx_ref)
	)`,
	`CREATE TABLE IF NOT EXISTS classified_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chain TEXT,
		kind TEXT NOT NULL,
		severity TEXT NOT NULL,
		retryable INTEGER NOT NULL,
		recovery_action TEXT,
		message TEXT,
		raw TEXT,
		created_at INTEGER NOT NULL
	)`,
}
