package views

import "time"

var quotes = []string{
	"The way to get started is to quit talking and begin doing.",
	"Your time is limited, so don't waste it living someone else's life.",
	"If you set your goals ridiculously high and it's a failure, you will fail above everyone else's success.",
	"Life is what happens when you're busy making other plans.",
	"The future belongs to those who believe in the beauty of their dreams.",
	"It is during our darkest moments that we must focus to see the light.",
	"Do not go where the path may lead, go instead where there is no path and leave a trail.",
	"You will face many defeats in life, but never let yourself be defeated.",
}

// Quote returns the quote for now's UTC day; it rotates once per day.
func Quote(now time.Time) string {
	i := int((now.UTC().Unix() / 86400) % int64(len(quotes)))
	if i < 0 {
		i += len(quotes)
	}
	return quotes[i]
}
