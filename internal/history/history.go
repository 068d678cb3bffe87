// Package history is a write-only audit trail: every finished game
// and every move played in it is recorded to sqlite for later
// inspection. The running server never queries this database back;
// all authoritative state lives in internal/game and internal/registry.
package history

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"path"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"fpc-server/internal/board"
	"fpc-server/internal/config"
)

// moveText renders a move for the audit log; this is a log, not the
// wire protocol, so "kind from->to" is enough to reconstruct intent
// by eye.
func moveText(mv board.Move) string {
	switch mv.Kind {
	case board.Promotion:
		return mv.From.String() + "->" + mv.To.String() + "=" + mv.Promote.String()
	default:
		return mv.From.String() + "->" + mv.To.String()
	}
}

//go:embed sql
var sqlDir embed.FS

// Action is one unit of database work, queued onto a Recorder's
// channel and run by its single worker.
type Action func(*sql.DB, context.Context) error

// Recorder owns the sqlite connection and the queue of pending writes.
type Recorder struct {
	db      *sql.DB
	queries map[string]*sql.Stmt
	actions chan Action
	done    chan struct{}
}

// Open creates (if necessary) and migrates the sqlite file at dbPath,
// then starts the background worker that drains queued Actions.
func Open(dbPath string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", dbPath+"?mode=rwc")
	if err != nil {
		return nil, err
	}

	for _, pragma := range []string{
		"journal_mode = WAL",
		"synchronous = normal",
		"foreign_keys = on",
	} {
		if _, err := db.Exec("PRAGMA " + pragma + ";"); err != nil {
			db.Close()
			return nil, err
		}
	}

	r := &Recorder{
		db:      db,
		queries: make(map[string]*sql.Stmt),
		actions: make(chan Action, 64),
		done:    make(chan struct{}),
	}
	if err := r.loadQueries(); err != nil {
		db.Close()
		return nil, err
	}

	go r.run()
	return r, nil
}

func (r *Recorder) loadQueries() error {
	return fs.WalkDir(sqlDir, "sql", func(file string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		base := path.Base(file)
		data, err := fs.ReadFile(sqlDir, file)
		if err != nil {
			return err
		}
		if strings.HasPrefix(base, "create-") {
			config.Debug.Printf("history: execute %s", base)
			_, err = r.db.Exec(string(data))
			return err
		}
		config.Debug.Printf("history: prepare %s", base)
		stmt, err := r.db.Prepare(string(data))
		if err != nil {
			return err
		}
		r.queries[strings.TrimSuffix(base, ".sql")] = stmt
		return nil
	})
}

func (r *Recorder) run() {
	for act := range r.actions {
		if act == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := act(r.db, ctx); err != nil {
			config.Log.Printf("history: %v", err)
		}
		cancel()
	}
	close(r.done)
}

// Close stops accepting new actions and waits for the queue to drain.
func (r *Recorder) Close() {
	close(r.actions)
	<-r.done
	r.db.Close()
}

// submit enqueues act without blocking the caller on the database
// round trip; a full queue blocks the submitter rather than dropping
// history, since an audit log that silently loses entries is useless.
func (r *Recorder) submit(act Action) {
	r.actions <- act
}

// RecordMove queues the insertion of one played move. It is called as
// soon as the turn driver commits a move to the board, independent of
// whether the game that move belongs to ever finishes cleanly.
func (r *Recorder) RecordMove(gameID uint64, seat board.Color, mv board.Move, at time.Time) {
	r.submit(func(db *sql.DB, ctx context.Context) error {
		_, err := r.queries["insert-move"].ExecContext(ctx, gameID, seat.String(), moveText(mv), at)
		return err
	})
}

// Result names a finished game's four seats, in the fixed Red, Blue,
// Yellow, Green order of board.Colors.
type Result struct {
	Names  [4]string
	Ending [4]board.PlayerCondition
}

// RecordGame queues the insertion of the summary row for a finished
// game. It should be called once, after the turn driver has
// determined no seat is left to move.
func (r *Recorder) RecordGame(gameID uint64, started, finished time.Time, res Result) {
	r.submit(func(db *sql.DB, ctx context.Context) error {
		_, err := r.queries["insert-game"].ExecContext(ctx,
			gameID, started, finished,
			res.Names[board.Red], res.Names[board.Blue], res.Names[board.Yellow], res.Names[board.Green],
			res.Ending[board.Red].String(), res.Ending[board.Blue].String(),
			res.Ending[board.Yellow].String(), res.Ending[board.Green].String())
		return err
	})
}
