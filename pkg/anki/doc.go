// Package anki talks to a running Anki instance through the AnkiConnect
// add-on (HTTP JSON-RPC on localhost:8765, API version 6).
//
// cardpath uses it for two things: discovering which cards are currently
// due ([Client.DueCardIDs]) and fetching per-card review statistics
// ([Client.CardStats]) that feed weak-prerequisite classification in
// pkg/queue. Notes are matched to vault cards through note tags carrying
// the card id (e.g. "card_ab12cd34ef").
//
// FSRS stability comes from the getFSRSStats action, which requires a
// recent Anki with the FSRS scheduler. Its absence is not an error;
// stats simply come back without stability.
package anki
