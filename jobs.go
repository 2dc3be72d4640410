package algopay

import (
	"context"
	"time"
)

func (s *Algopay) runJobs() {
	s.scheduler.Every(10).Seconds().SingletonMode().Do(s.updateNodeStatus)
	s.scheduler.Every(12).Hours().SingletonMode().Do(s.cleanExpiredTasks)
	if s.kwriter != nil {
		s.scheduler.Every(5).Seconds().SingletonMode().Do(s.publishOutcomes)
	}

	s.scheduler.StartAsync()
}

func (s *Algopay) updateNodeStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	status, err := s.ledger.NodeStatus(ctx)
	if err != nil {
		log.Warn("fetch node status", "err", err)
		return
	}
	s.cache.UpdateNodeStatus(status)
}

// publishOutcomes streams recorded outcomes to kafka; a row is marked
// published only after the write succeeded, so delivery is at-least-once.
func (s *Algopay) publishOutcomes() {
	outcomes, err := s.wdb.GetUnpublishedOutcomes(50)
	if err != nil {
		log.Error("get unpublished outcomes", "err", err)
		return
	}
	for _, outcome := range outcomes {
		if err = s.kwriter.WriteOutcome(outcome); err != nil {
			log.Error("publish outcome", "err", err, "id", outcome.ID)
			return
		}
		if err = s.wdb.MarkOutcomePublished(outcome.ID); err != nil {
			log.Error("mark outcome published", "err", err, "id", outcome.ID)
			return
		}
	}
}

func (s *Algopay) cleanExpiredTasks() {
	before := time.Now().Add(-24 * time.Hour).Unix()
	if err := s.store.CleanExpiredTasks(before); err != nil {
		log.Error("clean expired video tasks", "err", err)
	}
}
