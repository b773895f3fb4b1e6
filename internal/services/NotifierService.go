package services

import (
	"akd/internal/catalog"
	"akd/internal/providers"
	"akd/internal/structures"
	"sync"
	"time"
)

type NotifierServiceInterface interface {
	Subscribe(cb func(catalog.Definition)) func()
	Show(def catalog.Definition)
	Complete()
	Active() (catalog.Definition, bool)
	QueueDepth() int
}

// NotifierService serializes achievement notifications: at most one is
// active at a time, the rest wait in FIFO order until the UI reports the
// active one as dismissed via Complete.
type NotifierService struct {
	mu          sync.Mutex
	subscribers map[int]func(catalog.Definition)
	nextSubID   int
	showing     bool
	active      catalog.Definition
	queue       []catalog.Definition
	settle      time.Duration
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
}

func NewNotifierService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) NotifierServiceInterface {
	return &NotifierService{
		subscribers: make(map[int]func(catalog.Definition)),
		settle:      conf.Notifier.SettleDelay,
		logger:      logger,
		metrics:     metrics,
	}
}

// Subscribe registers a callback and returns its unsubscribe function.
// Unsubscribing twice is a safe no-op.
func (ns *NotifierService) Subscribe(cb func(catalog.Definition)) func() {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	id := ns.nextSubID
	ns.nextSubID++
	ns.subscribers[id] = cb

	return func() {
		ns.mu.Lock()
		defer ns.mu.Unlock()
		delete(ns.subscribers, id)
	}
}

// Show delivers def to all subscribers if nothing is active, otherwise
// queues it behind the active notification.
func (ns *NotifierService) Show(def catalog.Definition) {
	ns.mu.Lock()
	if ns.showing {
		ns.queue = append(ns.queue, def)
		ns.metrics.SetNotificationQueueDepth(len(ns.queue))
		ns.mu.Unlock()
		return
	}
	ns.showing = true
	ns.active = def
	cbs := ns.snapshotSubscribers()
	ns.mu.Unlock()

	ns.deliver(def, cbs)
}

// Complete releases the active slot. With a non-empty queue the head is
// promoted immediately and delivered after the settling delay; the slot
// stays reserved during the pause so later Show calls queue behind it.
func (ns *NotifierService) Complete() {
	ns.mu.Lock()
	if !ns.showing {
		ns.mu.Unlock()
		return
	}

	if len(ns.queue) == 0 {
		ns.showing = false
		ns.active = catalog.Definition{}
		ns.mu.Unlock()
		return
	}

	next := ns.queue[0]
	ns.queue = ns.queue[1:]
	ns.metrics.SetNotificationQueueDepth(len(ns.queue))
	ns.active = next

	if ns.settle <= 0 {
		cbs := ns.snapshotSubscribers()
		ns.mu.Unlock()
		ns.deliver(next, cbs)
		return
	}

	settle := ns.settle
	ns.mu.Unlock()

	time.AfterFunc(settle, func() {
		ns.mu.Lock()
		cbs := ns.snapshotSubscribers()
		ns.mu.Unlock()
		ns.deliver(next, cbs)
	})
}

func (ns *NotifierService) Active() (catalog.Definition, bool) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.active, ns.showing
}

func (ns *NotifierService) QueueDepth() int {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return len(ns.queue)
}

// snapshotSubscribers must be called with the lock held.
func (ns *NotifierService) snapshotSubscribers() []func(catalog.Definition) {
	cbs := make([]func(catalog.Definition), 0, len(ns.subscribers))
	for _, cb := range ns.subscribers {
		cbs = append(cbs, cb)
	}
	return cbs
}

// deliver invokes every callback outside the lock. A panicking subscriber
// is logged and must not stop delivery to the others.
func (ns *NotifierService) deliver(def catalog.Definition, cbs []func(catalog.Definition)) {
	ns.metrics.IncNotificationsShown()
	for _, cb := range cbs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					ns.logger.Errorf(providers.TypeApp, "Notification subscriber failed for %s: %v", def.ID, r)
				}
			}()
			cb(def)
		}()
	}
}
