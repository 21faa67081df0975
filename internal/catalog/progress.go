package catalog

// ProgressNotifier receives a ProgressUpdate after every job advance and
// status transition. Implementations must not block.
type ProgressNotifier interface {
	Notify(update ProgressUpdate)
}

// NopNotifier drops every update.
type NopNotifier struct{}

func (NopNotifier) Notify(ProgressUpdate) {}

// MultiNotifier fans an update out to several notifiers in order.
type MultiNotifier []ProgressNotifier

func (m MultiNotifier) Notify(update ProgressUpdate) {
	for _, n := range m {
		n.Notify(update)
	}
}

// NotifierFunc adapts a function to ProgressNotifier.
type NotifierFunc func(ProgressUpdate)

func (f NotifierFunc) Notify(update ProgressUpdate) { f(update) }
