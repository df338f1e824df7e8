/*
Package messages defines the canonical message representation shared by the
Threadline Go SDK: a role-tagged message carrying an ordered sequence of typed
content parts, plus the supporting machinery every format converter relies on.

# Canonical model

A Message holds a stable ID, a role (user or assistant), a creation timestamp,
optional thread/resource correlation identifiers, and a Content envelope. The
envelope is version-tagged (format 3) and contains an ordered slice of Part
values. Recognized part kinds:

  - TextPart: plain text
  - ReasoningPart: model reasoning, flattened to a single text field
  - FilePart: a file reference (URL or data URI) with a media type
  - SourceURLPart: a cited source link
  - StepStartPart: a step boundary marker
  - ToolPart: a unified tool invocation/result ("tool-<name>") carrying the
    call ID, a forward-only state machine, the input and, once available,
    the output

System and tool roles never appear on a canonical message: tool traffic is
normalized into assistant-owned ToolParts, and system traffic is routed to a
separate channel by the timeline.

# Supporting machinery

The package also provides:

  - ClassifyFileData / FileDataToURL: disambiguation of URL, data-URI and
    bare base64 file payloads
  - PartKey / PartsKey / MessageKey: deterministic structural cache keys used
    for equality checks and dedup without deep value comparison
  - a typed error taxonomy (MessageError with ErrorType discriminators and
    Is* predicates) shared by the formats and timeline packages
*/
package messages
