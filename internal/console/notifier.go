package console

import (
	"fmt"
	"io"
	"sync"
)

// Notifier は一時的な通知を端末に表示する。httpclient.Notifier を満たす。
type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewNotifier はwに通知を書き出すNotifierを生成する。
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

// Notify はエラー通知を表示する。
func (n *Notifier) Notify(message string) {
	n.write(errorStyle.Render("✗ " + message))
}

// Success は成功通知を表示する。
func (n *Notifier) Success(message string) {
	n.write(successStyle.Render("✓ " + message))
}

func (n *Notifier) write(line string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, line)
}
