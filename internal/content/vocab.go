package content

// Themed vocabularies and template families. Placeholders use the
// ${token} form; fillToken resolves them from the per-index stream
// so a whole message is reproducible from its index.

var subjects = []string{
	"BTC", "ETH", "SOL", "AVAX", "LINK", "DOT", "ATOM", "ARB", "OP",
	"MATIC", "NEAR", "INJ", "TIA", "SUI", "APT", "RNDR", "FET", "LDO",
	"the majors", "alts", "the whole market", "perps", "spot",
}

var indicators = []string{
	"RSI", "MACD", "the 200 MA", "the 50 EMA", "volume profile", "OBV",
	"the funding rate", "open interest", "the order book", "CVD",
	"the weekly close", "the VWAP", "divergence", "the golden cross",
}

var timeframes = []string{
	"1m", "5m", "15m", "1h", "4h", "daily", "weekly", "monthly",
	"the short term", "the mid term", "this cycle",
}

var sentiments = []string{
	"bullish", "bearish", "heavy", "coiled", "overextended", "ready to move",
	"weak", "strong", "choppy", "compressed", "exhausted", "primed",
}

var actions = []string{
	"accumulated", "sold", "rotated into", "took profit on", "averaged into",
	"hedged", "re-entered", "closed out of", "laddered into",
}

var exclaims = []string{
	"lfg", "ngmi otherwise", "this is the one", "dyor", "not financial advice",
	"screenshot this", "mark my words", "wild", "insane setup", "finally",
}

var asides = []string{
	"imo", "for now", "as expected", "again", "like clockwork", "no cap",
	"if volume holds", "unless we lose support", "watch closely",
}

var emojiPool = []string{
	"\U0001F680", "\U0001F4C8", "\U0001F4C9", "\U0001F525", "\U0001F440",
	"\U0001F9D0", "\U0001F4AF", "⚡", "\U0001F40B", "\U0001F311",
}

var attachmentKinds = []string{"chart", "image", "document"}

var attachmentNames = []string{
	"setup.png", "weekly-outlook.png", "entry-zones.png", "funding.png",
	"heatmap.jpg", "orderflow.png", "levels.pdf", "thesis.pdf",
}

// Template families, weighted per the declared distribution: direct
// phrase, free-associative token salad, structured trade report, and
// question/callout.
type templateFamily struct {
	name     string
	weight   float64
	patterns []string
}

var families = []templateFamily{
	{
		name:   "direct",
		weight: 0.40,
		patterns: []string{
			"${subject} looking ${sentiment} on the ${timeframe}",
			"just ${action} ${subject}, ${aside}",
			"${indicator} on ${subject} is ${sentiment} ${aside}",
			"${subject} holding up better than expected, ${aside}",
			"if ${subject} reclaims ${price} we are so back",
			"${subject} ${timeframe} chart is ${sentiment}, ${exclaim}",
			"quietly ${action} ${subject} while everyone argues",
			"${subject} doing ${pct}% while nobody watches",
		},
	},
	{
		name:   "salad",
		weight: 0.22,
		patterns: []string{
			"${subject} ${indicator} ${timeframe} ${exclaim}",
			"${sentiment} ${sentiment} ${subject} ${aside}",
			"${timeframe} ${subject} ${pct}% ${exclaim}",
			"${indicator} ${sentiment} ${aside} ${exclaim}",
			"${subject} ${price} ${subject} ${price} ${aside}",
		},
	},
	{
		name:   "report",
		weight: 0.20,
		patterns: []string{
			"entry ${price}, target ${price}, stop ${price} on ${subject} — ${indicator} confirming",
			"closed ${subject} at ${price} for +${pct}%, ${aside}",
			"position update: ${action} ${subject} at ${price}, risk ${pct}%",
			"${subject} plan: buy ${price}, scale out ${price}-${price}, invalidation ${price}",
			"weekly recap: ${subject} +${pct}%, ${subject} -${smallpct}%, portfolio ${sentiment}",
		},
	},
	{
		name:   "question",
		weight: 0.18,
		patterns: []string{
			"anyone watching ${subject} on the ${timeframe}?",
			"what's the read on ${subject} here? ${indicator} says ${sentiment}",
			"is ${subject} a buy at ${price} or am I early?",
			"why is ${subject} ${sentiment} while ${subject} dumps?",
			"thoughts on ${indicator} for ${subject}? ${aside}",
		},
	},
}

func familyWeights() []float64 {
	w := make([]float64, len(families))
	for i, f := range families {
		w[i] = f.weight
	}
	return w
}
