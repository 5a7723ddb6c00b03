// Package models defines the core domain models for Tabie.
//
// # Models
//
//   - Tab: one bill-split session, the shared document every client subscribes to
//   - Item: one receipt line, claimed in whole or in part by participants
//   - Person: a participant; People[0] is by convention the organizer
//   - Share: a claimed amount of an item, stored as an exact fraction of units
//   - User: a registered account (organizers sign in, guests do not)
//   - RewardEntry: points earned by an organizer when a tab is fully paid back
//
// # Design Principles
//
// 1. **One document per tab**: items and people live inside the tab and are
// replaced as whole fields, mirroring the shared document store.
// 2. **No ambient state**: helpers take a tab and return new values.
// 3. **Default-filled records**: Normalize materializes empty claim maps so the
// calculator never has to special-case missing fields.
// 4. **Exact claims**: shares keep their denominator, so "a third" is 1/3 and
// never 0.333.
package models
