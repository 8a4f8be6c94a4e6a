// Package convo defines the conversation data model shared by every layer
// of chatmux.
//
// # Core Types
//
// Message is one turn in the conversation. Its Parts slice is an ordered
// sequence of tagged content units, rendered top to bottom:
//
//	type Message struct {
//	    ID    string
//	    Role  Role   // user or assistant
//	    Parts []Part
//	}
//
// Part is a sealed sum type. Concrete variants cover plain text, model
// reasoning, web sources, the three side-channel payloads (data-image,
// data-task, data-v0) and the interactive block types (plan, queue,
// confirmation, ...). A wire payload with a tag this package does not know
// decodes into *Unknown, which keeps the raw bytes and renders as nothing;
// new tags therefore degrade silently instead of failing.
//
// # Intent Classification
//
// Classify maps free-form input to one of four command intents (image,
// task, ui, default) using case-insensitive substring phrase sets with a
// fixed priority order. The order is load-bearing: the UI phrase set is
// broad ("build a", "create app") and is only consulted when the image and
// task sets did not match.
package convo
