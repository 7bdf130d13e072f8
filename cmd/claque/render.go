package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"claque/internal/core"
)

// consoleRenderer is the reference implementation of the renderer
// port: a line-oriented view of the community, either human-readable
// text or JSON lines for piping.
type consoleRenderer struct {
	out        io.Writer
	jsonLines  bool
	showTyping bool
	mu         sync.Mutex
}

func newConsoleRenderer(out io.Writer, jsonLines, showTyping bool) *consoleRenderer {
	return &consoleRenderer{out: out, jsonLines: jsonLines, showTyping: showTyping}
}

func (c *consoleRenderer) Event(ev core.Event) {
	if !c.showTyping {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.jsonLines {
		c.writeJSON(map[string]any{
			"event":     string(ev.Type),
			"sessionId": ev.SessionID,
			"actor":     ev.Actor.Name,
			"percent":   ev.Percent,
		})
		return
	}
	switch ev.Type {
	case core.EventStart:
		fmt.Fprintf(c.out, "    · %s is typing…\n", ev.Actor.Name)
	case core.EventPause:
		fmt.Fprintf(c.out, "    · %s paused (%.0f%%)\n", ev.Actor.Name, ev.Percent)
	case core.EventAbandoned:
		fmt.Fprintf(c.out, "    · %s stopped typing\n", ev.Actor.Name)
	}
}

func (c *consoleRenderer) Deliver(msg core.Message, isNew bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.jsonLines {
		row := map[string]any{
			"id":        msg.ID,
			"index":     msg.Index,
			"actor":     msg.Author.Name,
			"role":      string(msg.Author.Role),
			"text":      msg.Text,
			"timestamp": msg.Timestamp.Format(time.RFC3339),
			"isNew":     isNew,
		}
		if msg.ReplyTo >= 0 {
			row["replyTo"] = msg.ReplyTo
		}
		if msg.Pinned {
			row["pinned"] = true
		}
		if msg.Attachment != nil {
			row["attachment"] = msg.Attachment.Name
		}
		c.writeJSON(row)
		return
	}

	prefix := " "
	if !isNew {
		prefix = "·"
	}
	tag := ""
	switch msg.Author.Role {
	case core.RoleAdmin:
		tag = " [admin]"
	case core.RoleModerator:
		tag = " [mod]"
	}
	reply := ""
	if msg.ReplyTo >= 0 {
		reply = fmt.Sprintf(" ↩%d", msg.ReplyTo)
	}
	fmt.Fprintf(c.out, "%s %s %s%s%s: %s\n",
		prefix, msg.Timestamp.Format("Jan 02 15:04"), msg.Author.Name, tag, reply, msg.Text)
	if msg.Attachment != nil {
		fmt.Fprintf(c.out, "      📎 %s (%d bytes)\n", msg.Attachment.Name, msg.Attachment.Size)
	}
}

func (c *consoleRenderer) writeJSON(row map[string]any) {
	b, err := json.Marshal(row)
	if err != nil {
		return
	}
	fmt.Fprintln(c.out, string(b))
}
