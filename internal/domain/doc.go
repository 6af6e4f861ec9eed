// Package domain turns free-text air-threat reports into typed, geolocated
// events and fuses them across sources.
//
// # Input
//
// Messages arrive in batches from channel, feed and operator collaborators.
// Each carries a source id, the raw text, a timestamp and, for channel posts,
// an optional reply linkage ([RawMessage]). Texts are short Ukrainian or
// Russian posts such as:
//
//	"3 шахеди повз Миргород курс на Полтаву"
//	"БПЛА з моря на Одесу"
//	"Тривога! Харківська область"
//
// # Pipeline
//
// A refresh cycle runs the stages in this order:
//
//  1. [Resolver] orders one batch by time, threads replies and course-change
//     follow-ups onto a shared track and builds an [ExtractionContext] for
//     each message.
//  2. [Extractor] classifies the message, resolves 0..N locations through the
//     gazetteer and emits one [Event] per location. [AlarmExtractor] runs on
//     the same text and yields siren signals.
//  3. [Refine] smooths coordinates inside the batch toward same-type peers.
//  4. [Merge] collapses near-duplicates across the pooled batches into
//     canonical events with evidence counts.
//
// # Coordinates
//
// Gazetteer and coordinate-literal hits are exact. Region centres and
// geocoded points are approximate and receive a small offset derived from the
// event id hash, so identical input always lands on the same point. Every
// emitted point lies inside the configured [Bounds]; anything else is dropped.
//
// # ID Generation
//
// Event IDs are "<type>-" followed by the first 8 bytes of a SHA-256 digest of
// the track key (or source, timestamp, type, label) and the candidate index.
// Re-running extraction over the same input yields the same ids, which keeps
// the dedup stage and downstream consumers idempotent. See [eventID].
//
// # Open decisions
//
// The downed filter looks at the message's own text and its reply parent only;
// nearby context never suppresses a report. Direction is parsed from the
// message's own text only, so a compass word in a neighbouring post cannot
// rotate this track.
package domain
