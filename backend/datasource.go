package backend

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gioui.org/x/explorer"
	"git.sr.ht/~whereswaldon/voicestats/chart"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultSessionID identifies the session holding the built-in dataset.
const DefaultSessionID = "default"

// ErrNoHeadings is reported by a session whose source ended before a header
// row could be read.
var ErrNoHeadings = errors.New("dataset has no header row")

// Session is a snapshot of one dataset source. Data is never modified after
// the session is published, so it may be shared freely.
type Session struct {
	ID     string
	Source string
	Data   chart.Dataset
	// Live reports whether the source is still being followed for new rows.
	Live bool
	Err  error
}

type RWBox[T any] struct {
	t    T
	lock sync.RWMutex
}

func (r *RWBox[T]) Read(f func(*T)) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f(&r.t)
}

func (r *RWBox[T]) Write(f func(*T)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	f(&r.t)
}

// Datasource owns the active dataset session and fans its snapshots out to
// subscribers. Opening a new source cancels the previous one.
type Datasource struct {
	log    logrus.FieldLogger
	appCtx context.Context

	current RWBox[Session]

	lock        sync.Mutex
	activeID    string
	cancel      context.CancelFunc
	subscribers map[chan Session]struct{}
}

func NewDatasource(appCtx context.Context, log logrus.FieldLogger) *Datasource {
	d := &Datasource{
		log:         log,
		appCtx:      appCtx,
		activeID:    DefaultSessionID,
		subscribers: make(map[chan Session]struct{}),
	}
	d.current.Write(func(s *Session) {
		*s = Session{
			ID:     DefaultSessionID,
			Source: "built-in",
			Data:   chart.DefaultDataset(),
		}
	})
	return d
}

// Current returns the latest snapshot of the active session.
func (d *Datasource) Current() Session {
	var s Session
	d.current.Read(func(cur *Session) {
		s = *cur
	})
	return s
}

// Subscribe yields the active session immediately and then every later
// snapshot. Slow readers only ever see the newest snapshot. The channel is
// closed when ctx is cancelled.
func (d *Datasource) Subscribe(ctx context.Context) <-chan Session {
	ch := make(chan Session, 1)
	d.lock.Lock()
	d.subscribers[ch] = struct{}{}
	ch <- d.Current()
	d.lock.Unlock()
	go func() {
		<-ctx.Done()
		d.lock.Lock()
		defer d.lock.Unlock()
		delete(d.subscribers, ch)
		close(ch)
	}()
	return ch
}

func (d *Datasource) publish(s Session) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if s.ID != d.activeID {
		return
	}
	d.current.Write(func(cur *Session) {
		*cur = s
	})
	for ch := range d.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func generateSessionID() string {
	return strings.Replace(time.Now().UTC().Format("20060102150405.000000000"), ".", "", 1)
}

// activate makes id the active session, cancelling its predecessor.
func (d *Datasource) activate(id string) context.Context {
	ctx, cancel := context.WithCancel(d.appCtx)
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	d.activeID = id
	d.cancel = cancel
	return ctx
}

// Open starts a session reading the CSV file at path and following any rows
// appended to it later.
func (d *Datasource) Open(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed opening dataset: %w", err)
	}
	return d.load(path, f, path), nil
}

// LoadFromFile lets the user pick a dataset file and starts a session for it.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) (string, error) {
	file, err := expl.ChooseFile("csv")
	if err != nil {
		return "", err
	}
	name := "chosen file"
	var follow string
	if f, ok := file.(interface{ Name() string }); ok {
		name = f.Name()
		follow = f.Name()
	}
	return d.load(name, file, follow), nil
}

// LoadFromStream starts a session reading r until it is exhausted.
func (d *Datasource) LoadFromStream(name string, r io.ReadCloser) string {
	return d.load(name, r, "")
}

// LoadDataset replaces the active session with a fixed dataset.
func (d *Datasource) LoadDataset(name string, data chart.Dataset) string {
	id := generateSessionID()
	d.activate(id)
	d.publish(Session{
		ID:     id,
		Source: name,
		Data:   data.Clone(),
	})
	return id
}

func (d *Datasource) load(name string, r io.ReadCloser, follow string) string {
	id := generateSessionID()
	ctx := d.activate(id)
	session := Session{
		ID:     id,
		Source: name,
		Live:   true,
	}
	// Emit the empty session immediately so readers learn about the switch.
	d.publish(session)
	go d.readSession(ctx, session, r, follow)
	return id
}

// waiter blocks until the followed file is written to. It returns false when
// there is nothing left to wait for.
type waiter func() bool

func (d *Datasource) follow(ctx context.Context, log logrus.FieldLogger, path string) (waiter, func()) {
	noWait := func() bool { return false }
	if path == "" {
		return noWait, func() {}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Warn("failed creating file watcher")
		return noWait, func() {}
	}
	if err := watcher.Add(path); err != nil {
		log.WithError(err).Warn("failed watching dataset")
		watcher.Close()
		return noWait, func() {}
	}
	wait := func() bool {
		for {
			select {
			case <-ctx.Done():
				return false
			case ev, ok := <-watcher.Events:
				if !ok {
					return false
				}
				if ev.Has(fsnotify.Write) {
					return true
				}
				if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					log.WithField("op", ev.Op.String()).Info("dataset file went away")
					return false
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return false
				}
				log.WithError(err).Warn("file watcher error")
			}
		}
	}
	return wait, func() { watcher.Close() }
}

func (d *Datasource) readSession(ctx context.Context, session Session, r io.ReadCloser, path string) {
	defer r.Close()
	log := d.log.WithFields(logrus.Fields{
		"session": session.ID,
		"source":  session.Source,
	})
	wait, stop := d.follow(ctx, log, path)
	defer stop()
	finish := func(err error) {
		session.Live = false
		session.Err = err
		if err != nil && ctx.Err() == nil {
			log.WithError(err).Error("dataset session failed")
		}
		d.publish(session)
	}

	csvReader := newCSVReader(newLineReader(r))
	var cols columns
	for {
		headings, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			if wait() {
				continue
			}
			finish(ErrNoHeadings)
			return
		} else if err != nil {
			finish(fmt.Errorf("failed reading headings: %w", err))
			return
		}
		cols, err = parseHeadings(headings)
		if err != nil {
			finish(err)
			return
		}
		break
	}

	var (
		data  chart.Dataset
		dirty bool
	)
	for {
		rec, err := csvReader.Read()
		var parseErr *csv.ParseError
		if errors.Is(err, io.EOF) {
			if dirty {
				session.Data = data.Clone()
				d.publish(session)
				dirty = false
			}
			if wait() {
				continue
			}
			finish(nil)
			return
		} else if errors.As(err, &parseErr) {
			log.WithError(err).Warn("skipping malformed row")
			continue
		} else if err != nil {
			finish(fmt.Errorf("failed reading dataset: %w", err))
			return
		}
		sample, err := cols.parse(rec)
		if err != nil {
			log.WithError(err).Warn("skipping malformed row")
			continue
		}
		if !data.Insert(sample) {
			log.WithField("date", sample.Timestamp).Debug("skipping duplicate sample")
			continue
		}
		dirty = true
	}
}
