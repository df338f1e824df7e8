/*
Package timeline implements the canonical message timeline: a single ordered
list of canonical messages fed by multiple producers (user input, recalled
memory, streamed model output, injected context) during one agent turn, with
reconciliation of incremental updates into a consistent, replayable history.

# Mutation

Add is the single mutation entrypoint. Every input is classified and
converted by pkg/messages/formats, validated, deduplicated, and either
appended, merged into the in-flight assistant turn (the streaming-append
path, which unifies tool calls with their later results and interleaves
streamed parts by anchor interpolation), or replaced in place when an ID
recurs with different content. The list is kept sorted ascending by creation
time, with synthetic timestamps guaranteeing a total order.

A Timeline instance expects one logical producer mutating it at a time: one
timeline per agent turn, not shared across concurrent turns. Operations are
internally mutex-guarded so pure readers may observe the list concurrently,
but two interleaved logical merges against the same instance are a caller
bug.

# Reads

All, Remembered, Input and Response return point-in-time projections
filterable into any supported external format. ModelReady additionally strips
unresolved tool calls, prepends resolved system messages, and synthesizes a
leading user turn when the conversation would otherwise open with the
assistant. DrainUnsaved hands the not-yet-persisted subset to the storage
collaborator with at-most-once semantics per drain; SaveQueue is a batching
reference implementation of that collaborator.
*/
package timeline
