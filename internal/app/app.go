// Package app wires the long-lived Spark components for one base directory.
package app

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/spark/internal/config"
	"github.com/hpungsan/spark/internal/db"
	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/logging"
	"github.com/hpungsan/spark/internal/ops"
	"github.com/hpungsan/spark/internal/persist"
	"github.com/hpungsan/spark/internal/sensors"
	"github.com/hpungsan/spark/internal/store"
)

// App is the entry store plus its collaborators.
type App struct {
	Store   *store.Store
	Sensors *sensors.Sensors
	DB      *sql.DB
	Config  *config.Config
	BaseDir string
	Log     logrus.FieldLogger

	stopHistory func()
}

// Open initializes the preference database, loads the entries document and
// restores the last sensor readings.
func Open(baseDir string, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	log = logging.OrDiscard(log)

	defEmotion, err := entry.ParseEmotion(cfg.DefaultEmotion)
	if err != nil {
		return nil, fmt.Errorf("config default_emotion: %w", err)
	}

	database, err := db.Init(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	path := cfg.EntriesPath(baseDir)
	st, err := store.Open(persist.NewFile(path, log), store.WithLogger(log))
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to open entries: %w", err)
	}
	log.WithFields(logrus.Fields{"path": path, "entries": st.Len()}).Debug("entries loaded")

	prefs := sensors.DBPreferences{DB: database}
	sn := &sensors.Sensors{
		Location: sensors.NewLocation(prefs, log),
		Weather:  sensors.NewWeather(prefs, log),
		Emotion:  sensors.NewEmotion(prefs, defEmotion, log),
	}

	return &App{
		Store:       st,
		Sensors:     sn,
		DB:          database,
		Config:      cfg,
		BaseDir:     baseDir,
		Log:         log,
		stopHistory: ops.RecordUnlocks(database, st, log),
	}, nil
}

// Close stops unlock recording and closes the database.
func (a *App) Close() error {
	if a.stopHistory != nil {
		a.stopHistory()
	}
	return a.DB.Close()
}
