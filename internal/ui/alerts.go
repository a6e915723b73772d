package ui

import "github.com/golang/glog"

// alertQueue collects failure messages shown one at a time in a blocking
// dialog. It is only touched from the update loop.
type alertQueue struct {
	items []string
}

// Notify queues a message. It implements tags.Notifier.
func (q *alertQueue) Notify(message string) {
	glog.V(1).Infof("alert: %s", message)
	q.items = append(q.items, message)
}

func (q *alertQueue) current() (string, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	return q.items[0], true
}

func (q *alertQueue) dismiss() {
	if len(q.items) > 0 {
		q.items = q.items[1:]
	}
}

func (q *alertQueue) len() int {
	return len(q.items)
}
