package app

import (
	"fmt"
	"time"
)

// Level is a notice's severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const noticeLimit = 50

// Notice is a transient user-visible notification.
type Notice struct {
	ID    int
	Level Level
	Text  string
	Time  time.Time
}

func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Text)
}

func (c *Controller) notify(level Level, format string, args ...any) {
	c.noticeMu.Lock()
	defer c.noticeMu.Unlock()

	c.noticeSeq++
	c.notices = append(c.notices, Notice{
		ID:    c.noticeSeq,
		Level: level,
		Text:  fmt.Sprintf(format, args...),
		Time:  c.now(),
	})
	if len(c.notices) > noticeLimit {
		c.notices = c.notices[len(c.notices)-noticeLimit:]
	}
}

// Notices returns the retained notices, oldest first.
func (c *Controller) Notices() []Notice {
	c.noticeMu.Lock()
	defer c.noticeMu.Unlock()
	return append([]Notice(nil), c.notices...)
}

// NoticesSince returns notices newer than id.
func (c *Controller) NoticesSince(id int) []Notice {
	c.noticeMu.Lock()
	defer c.noticeMu.Unlock()

	var out []Notice
	for _, n := range c.notices {
		if n.ID > id {
			out = append(out, n)
		}
	}
	return out
}

// LastNotice returns the most recent notice.
func (c *Controller) LastNotice() (Notice, bool) {
	c.noticeMu.Lock()
	defer c.noticeMu.Unlock()
	if len(c.notices) == 0 {
		return Notice{}, false
	}
	return c.notices[len(c.notices)-1], true
}
