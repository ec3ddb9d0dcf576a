package notify

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

// TopicToastShown is published on the application bus for every toast.
const TopicToastShown = "toast.shown"

const defaultToastLimit = 50

type ToastMessage struct {
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// ToastHub buffers transient in-app messages for the UI to poll, the
// server-side stand-in for the browser toast overlay. The buffer is
// bounded; old messages fall off the tail.
type ToastHub struct {
	mu       sync.Mutex
	messages []ToastMessage
	limit    int
	bus      EventBus.Bus
	nowFn    func() time.Time
}

func NewToastHub(bus EventBus.Bus) *ToastHub {
	return &ToastHub{limit: defaultToastLimit, bus: bus, nowFn: time.Now}
}

func (h *ToastHub) Show(message string) {
	h.mu.Lock()
	h.messages = append([]ToastMessage{{Message: message, Time: h.nowFn()}}, h.messages...)
	if len(h.messages) > h.limit {
		h.messages = h.messages[:h.limit]
	}
	h.mu.Unlock()

	zap.L().Info("toast", zap.String("message", message))
	if h.bus != nil {
		h.bus.Publish(TopicToastShown, message)
	}
}

// Recent returns buffered messages, newest first.
func (h *ToastHub) Recent() []ToastMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ToastMessage, len(h.messages))
	copy(out, h.messages)
	return out
}
