// Package content deterministically generates messages by absolute
// index. MessageAt, Range and Page are pure functions of
// (index, seed, options); only Materialize consults the bounded
// duplicate-recency window, and its retry salts are themselves a pure
// function of (index, attempt), so full materialization is
// reproducible too.
package content

import (
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"claque/internal/actor"
	"claque/internal/core"
	"claque/internal/seq"
)

// ErrOutOfRange is returned for indices outside [0, Size).
var ErrOutOfRange = errors.New("message index out of range")

// retrySalt perturbs the per-index stream on duplicate collisions.
const retrySalt uint32 = 0x85EBCA6B

// Options tune generation. Zero values are replaced with defaults by
// New; Anchor must be fixed by the caller for cross-process
// reproducibility (New pins it to the construction time otherwise).
type Options struct {
	Size        int
	HistorySpan time.Duration
	Anchor      time.Time // newest message timestamp

	ReplyChance  float64
	AttachChance float64
	PinChance    float64

	RecencyWindow int // fingerprint window size, low thousands
	RetryBudget   int // regeneration attempts per collision
}

func (o *Options) applyDefaults() {
	if o.Size <= 0 {
		o.Size = 1000
	}
	if o.HistorySpan <= 0 {
		o.HistorySpan = 30 * 24 * time.Hour
	}
	if o.Anchor.IsZero() {
		o.Anchor = time.Now().Truncate(time.Minute)
	}
	if o.ReplyChance == 0 {
		o.ReplyChance = 0.12
	}
	if o.AttachChance == 0 {
		o.AttachChance = 0.05
	}
	if o.PinChance == 0 {
		o.PinChance = 0.004
	}
	if o.RecencyWindow <= 0 {
		o.RecencyWindow = 2048
	}
	if o.RetryBudget <= 0 {
		o.RetryBudget = 3
	}
}

// Generator produces messages for one simulated community.
type Generator struct {
	src    seq.Source
	dir    *actor.Directory
	opts   Options
	recent *lru.Cache[uint64, int]
}

// New builds a Generator sharing the directory's population.
func New(seed uint32, dir *actor.Directory, opts Options) *Generator {
	opts.applyDefaults()
	// Insert-only use makes LRU eviction equivalent to oldest-entry
	// eviction once the window fills.
	recent, _ := lru.New[uint64, int](opts.RecencyWindow)
	return &Generator{
		src:    seq.NewSource(seed),
		dir:    dir,
		opts:   opts,
		recent: recent,
	}
}

// Size returns the declared corpus size.
func (g *Generator) Size() int { return g.opts.Size }

// MessageAt returns the message at one absolute index. Pure and total
// for valid indices.
func (g *Generator) MessageAt(index int) (core.Message, error) {
	if index < 0 || index >= g.opts.Size {
		return core.Message{}, fmt.Errorf("index %d of %d: %w", index, g.opts.Size, ErrOutOfRange)
	}
	return g.generate(index, 0), nil
}

// Range returns count messages starting at start, generated lazily:
// nothing outside the window is materialized.
func (g *Generator) Range(start, count int) ([]core.Message, error) {
	if start < 0 || count < 0 || start+count > g.opts.Size {
		return nil, fmt.Errorf("range [%d,%d): %w", start, start+count, ErrOutOfRange)
	}
	out := make([]core.Message, 0, count)
	for i := start; i < start+count; i++ {
		out = append(out, g.generate(i, 0))
	}
	return out, nil
}

// Page returns one page of messages; the final page may be short.
func (g *Generator) Page(pageIndex, pageSize int) ([]core.Message, error) {
	if pageIndex < 0 || pageSize <= 0 {
		return nil, fmt.Errorf("page %d size %d: %w", pageIndex, pageSize, ErrOutOfRange)
	}
	start := pageIndex * pageSize
	if start >= g.opts.Size {
		return nil, fmt.Errorf("page %d: %w", pageIndex, ErrOutOfRange)
	}
	count := pageSize
	if start+count > g.opts.Size {
		count = g.opts.Size - start
	}
	return g.Range(start, count)
}

// Materialize generates the full corpus with duplicate avoidance: a
// message whose fingerprint collides with one in the recency window is
// regenerated under perturbed salts up to the retry budget, then
// accepted as-is. Rare residual collisions are a deliberate trade-off
// against unbounded memory.
func (g *Generator) Materialize() []core.Message {
	out := make([]core.Message, 0, g.opts.Size)
	for i := 0; i < g.opts.Size; i++ {
		msg := g.generate(i, 0)
		for attempt := 1; attempt <= g.opts.RetryBudget; attempt++ {
			if _, dup := g.recent.Get(Fingerprint(msg.Text)); !dup {
				break
			}
			msg = g.generate(i, attempt)
		}
		g.recent.Add(Fingerprint(msg.Text), i)
		out = append(out, msg)
	}
	return out
}

// TextFor generates message text for an externally chosen actor,
// satisfying the pluggable content-source port.
func (g *Generator) TextFor(a core.Actor, index int) (string, error) {
	st := g.src.DeriveIndexed(seq.SaltMessages, index)
	return g.textFrom(st, a), nil
}

// generate is the pure core: one message from (index, attempt).
func (g *Generator) generate(index, attempt int) core.Message {
	salt := seq.SaltMessages
	if attempt > 0 {
		salt ^= uint32(attempt) * retrySalt
	}
	st := g.src.DeriveIndexed(salt, index)

	author := g.dir.Profile(st.Intn(g.dir.Size()))
	msg := core.Message{
		ID:      fmt.Sprintf("msg-%08d", index),
		Index:   index,
		Author:  author,
		Text:    g.textFrom(st, author),
		ReplyTo: -1,
	}

	// Reply targets always point strictly backwards.
	if index > 0 && st.Chance(g.opts.ReplyChance) {
		back := st.Intn(min(index, 40)) + 1
		msg.ReplyTo = index - back
	}
	if st.Chance(g.opts.AttachChance) {
		msg.Attachment = &core.Attachment{
			Kind: seq.Pick(st, attachmentKinds),
			Name: seq.Pick(st, attachmentNames),
			Size: int64(st.Intn(900_000) + 20_000),
		}
	}
	if st.Chance(g.opts.PinChance) {
		msg.Pinned = true
	}
	msg.Timestamp = g.timestampFor(index, st)
	return msg
}

// timestampFor maps index linearly across the historical span and adds
// bounded symmetric jitter: ordered on average, not strictly monotonic.
func (g *Generator) timestampFor(index int, st *seq.Stream) time.Time {
	span := g.opts.HistorySpan
	step := span / time.Duration(g.opts.Size)
	base := g.opts.Anchor.Add(-span + step*time.Duration(index))
	jitter := time.Duration((st.Float()*2 - 1) * 0.45 * float64(step))
	return base.Add(jitter)
}

var placeholderPattern = regexp.MustCompile(`\$\{([a-z]+)\}`)

// textFrom picks a template family and fills its placeholders from the
// stream, then applies author flavor (emoji affinity).
func (g *Generator) textFrom(st *seq.Stream, author core.Actor) string {
	fam := families[seq.PickWeighted(st, familyWeights())]
	pattern := seq.Pick(st, fam.patterns)

	text := placeholderPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		return fillToken(st, match[2:len(match)-1])
	})

	if st.Chance(author.EmojiAffinity * 0.6) {
		text += " " + seq.Pick(st, emojiPool)
		if st.Chance(author.EmojiAffinity * 0.3) {
			text += seq.Pick(st, emojiPool)
		}
	}
	return text
}

func fillToken(st *seq.Stream, token string) string {
	switch token {
	case "subject":
		return seq.Pick(st, subjects)
	case "indicator":
		return seq.Pick(st, indicators)
	case "timeframe":
		return seq.Pick(st, timeframes)
	case "sentiment":
		return seq.Pick(st, sentiments)
	case "action":
		return seq.Pick(st, actions)
	case "exclaim":
		return seq.Pick(st, exclaims)
	case "aside":
		return seq.Pick(st, asides)
	case "price":
		return priceLike(st)
	case "pct":
		return fmt.Sprintf("%.1f", st.Between(0.5, 42))
	case "smallpct":
		return fmt.Sprintf("%.1f", st.Between(0.2, 9))
	default:
		return token
	}
}

// priceLike renders a plausible price across several magnitudes.
func priceLike(st *seq.Stream) string {
	switch st.Intn(4) {
	case 0:
		return fmt.Sprintf("%.4f", st.Between(0.01, 2))
	case 1:
		return fmt.Sprintf("%.2f", st.Between(2, 150))
	case 2:
		return fmt.Sprintf("%.0f", st.Between(150, 5000))
	default:
		return fmt.Sprintf("%.0fk", st.Between(10, 120))
	}
}

var fingerprintStrip = regexp.MustCompile(`[\d\s]+`)

// Fingerprint is the normalized hash used for duplicate detection:
// case-folded with digits and whitespace removed, so messages differing
// only in numbers still count as duplicates.
func Fingerprint(text string) uint64 {
	normalized := fingerprintStrip.ReplaceAllString(strings.ToLower(text), "")
	h := fnv.New64a()
	_, _ = h.Write([]byte(normalized))
	return h.Sum64()
}
