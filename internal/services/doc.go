// Package services implements HTTP clients for the external collaborators of
// the genre extraction pipeline.
//
// # Wikipedia
//
// [WikipediaService] resolves artist names to candidate encyclopedia pages and
// retrieves page markup:
//
//  1. Search : opensearch query, candidates classified into music-relevance
//     tiers ([models.TierMusician] > [models.TierKeyword] > [models.TierFallback])
//  2. PageContent : revisions query with automatic redirect resolution, a
//     bounded manual re-fetch for redirect stubs, and a one-shot fuller
//     retrieval when the content looks truncated
//
// Both operations fail soft: network errors, non-2xx statuses, and parse
// failures degrade to empty results so the extraction engine can continue to
// its next strategy. Failures are logged, never raised.
//
// # NLP Inference
//
// [NLPService] talks to a local inference server exposing zero-shot text
// classification and named-entity recognition. It implements
// [genres.Classifier] for the validator's ambiguous-candidate path.
// Availability is probed lazily once per process and verdicts are memoized
// with [cache.Cache] so model inference is paid at most once per candidate.
package services
