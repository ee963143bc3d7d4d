package service

// Subscribe returns a channel that receives every published snapshot,
// starting with the current one, and a func that cancels the subscription.
// A subscriber that falls behind loses its oldest pending snapshot; the
// tick never blocks on it.
func (s *Service) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	// seeding under subMu means a concurrent publish either lands after the
	// seed or is already reflected in it
	s.subMu.Lock()
	ch <- s.Snapshot()
	s.subs[ch] = struct{}{}
	n := len(s.subs)
	s.subMu.Unlock()
	s.metrics.Subscribers.Set(float64(n))

	return ch, func() { s.unsubscribe(ch) }
}

func (s *Service) unsubscribe(ch chan Snapshot) {
	s.subMu.Lock()
	if _, ok := s.subs[ch]; !ok {
		s.subMu.Unlock()
		return
	}
	delete(s.subs, ch)
	close(ch)
	n := len(s.subs)
	s.subMu.Unlock()
	s.metrics.Subscribers.Set(float64(n))
}

func (s *Service) publish(snap Snapshot) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// full: drop the oldest pending value and retry once
		select {
		case <-ch:
			s.metrics.DroppedSnapshots.Inc()
		default:
		}
		select {
		case ch <- snap:
		default:
			s.metrics.DroppedSnapshots.Inc()
		}
	}
}
