/*
Package formats classifies and converts the message shapes the Threadline SDK
accepts, bridging them to and from the canonical representation defined in
pkg/messages.

# Recognized shapes

	- Legacy v1: flat content (string or content-block array), role and
	  threadId at the top level, no format tag
	- Persisted v2: content envelope tagged format=2, array of parts,
	  reasoning stored as detail segments, optional legacy content string
	- Canonical v3: content envelope tagged format=3 (the canonical shape)
	- Model message: role plus content that is either a string or an array of
	  typed blocks (text, tool-call, tool-result, reasoning, file, image)
	- UI message: a top-level parts array, not nested in a content envelope

Detect classifies a decoded JSON object into one of these; detection checks
the canonical shapes first because a canonical message would otherwise also
satisfy the generic model-message predicate. Normalize accepts either typed
shape values or raw JSON and returns a canonical message.

Every converter is total over classified inputs and order-preserving on
parts. Tool-call and tool-result blocks unify onto a single tool part, remote
URLs are preserved verbatim while bare payloads are wrapped as data URIs, and
a legacy v2 content string survives a v2 to v3 to v2 round-trip through a
metadata stash.
*/
package formats
