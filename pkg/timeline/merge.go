package timeline

import "github.com/haivivi/chatmux/pkg/convo"

// Merge combines the streamed and synthetic message lists into the ordered
// view: all streamed messages in arrival order, then all synthetic messages
// in append order. Concatenation is by source, not by wall clock; neither
// input is mutated and a fresh slice is returned on every call.
func Merge(streamed, synthetic []*convo.Message) []*convo.Message {
	out := make([]*convo.Message, 0, len(streamed)+len(synthetic))
	out = append(out, streamed...)
	out = append(out, synthetic...)
	return out
}
