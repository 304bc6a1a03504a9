package sync

import (
	"errors"
	"time"

	"github.com/alfredjeanlab/medialib/internal/events"
)

// WatchPresets re-exports shortly after a preset is saved or deleted, so
// backups do not wait for the next tick. A burst of changes inside debounce
// collapses into one sync. The scheduler must already be started; Stop ends
// the watch and unsubscribes.
func (s *Scheduler) WatchPresets(sub events.Subscriber, debounce time.Duration) error {
	if s.ctx == nil {
		return errors.New("sync: scheduler not started")
	}
	ch, unsubscribe, err := sub.Subscribe(events.TopicPresets)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer unsubscribe()

		timer := time.NewTimer(debounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg.Topic != events.TopicPresetSaved && msg.Topic != events.TopicPresetDeleted {
					continue
				}
				s.logger.Debug("preset changed, sync pending", "topic", msg.Topic)
				timer.Reset(debounce)
			case <-timer.C:
				s.syncOnce(s.ctx)
			}
		}
	}()
	return nil
}
