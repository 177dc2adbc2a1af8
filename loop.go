package main

import (
	"context"
	"time"

	"github.com/banshee-data/roboeyes/api"
	"github.com/banshee-data/roboeyes/db"
	"github.com/banshee-data/roboeyes/internal/config"
	"github.com/banshee-data/roboeyes/internal/eyes"
	"github.com/banshee-data/roboeyes/internal/monitoring"
	"github.com/banshee-data/roboeyes/internal/mood"
	"github.com/banshee-data/roboeyes/internal/sensor"
	"github.com/banshee-data/roboeyes/internal/timeutil"
)

// frameLoop couples the sensor reader, the mood classifier, and the
// animation engine at a fixed frame cadence, publishing one snapshot per
// frame and recording observations and mood transitions as they happen.
type frameLoop struct {
	cfg        *config.Config
	reader     *sensor.Reader
	classifier *mood.Classifier
	engine     *eyes.Engine
	srv        *api.Server
	db         *db.DB
	clock      timeutil.Clock
	events     <-chan eyes.Event

	lastDistance float64
	simulated    bool
	lastMood     mood.Mood
	haveMood     bool
}

// run ticks the loop at the configured frame rate until the context is
// cancelled.
func (l *frameLoop) run(ctx context.Context) {
	interval := l.cfg.FrameInterval()
	ticker := l.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			l.tick(interval)
		}
	}
}

// tick advances one frame: drain the latest sensor sample, classify it,
// fold in at most one manual event, render, and publish.
func (l *frameLoop) tick(elapsed time.Duration) {
	now := l.clock.Now()

	var m mood.Mood
	if sample, ok := l.reader.Poll(); ok {
		m = l.classifier.Classify(sample.DistanceCM, now)
		l.lastDistance = sample.DistanceCM
		l.simulated = sample.Simulated
		if err := l.db.RecordObservation(sample.DistanceCM, sample.Simulated); err != nil {
			monitoring.Logf("failed to record observation: %v", err)
		}
	} else {
		// no fresh reading this frame; mood holds
		m = l.classifier.Hold()
	}

	ev := l.nextEvent()
	if ev.Kind == eyes.EventSetMood {
		// a manual mood select commits immediately and discards any pending
		// candidate, so the sensor must persist a fresh full dwell window
		// before it can displace the selection
		l.classifier.Override(ev.Mood, now)
		m = l.classifier.Committed()
	}

	frame := l.engine.Tick(elapsed, m, ev)

	if !l.haveMood || l.engine.Mood() != l.lastMood {
		l.lastMood = l.engine.Mood()
		l.haveMood = true
		monitoring.Logf("mood changed to %s", l.lastMood)
		if err := l.db.RecordMoodChange(l.lastMood.String()); err != nil {
			monitoring.Logf("failed to record mood change: %v", err)
		}
	}

	l.srv.Publish(api.Snapshot{
		Mood:       frame.Mood,
		DistanceCM: l.lastDistance,
		Simulated:  l.simulated,
		Frame:      frame,
	})
}

// nextEvent drains at most one queued manual event per frame; excess events
// wait for later frames.
func (l *frameLoop) nextEvent() eyes.Event {
	select {
	case ev := <-l.events:
		return ev
	default:
		return eyes.Event{}
	}
}
