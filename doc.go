// Package roomtag is the composition root of the room and zone label service.
//
// Colony maps rebuild their rooms from scratch whenever a wall or door changes, so a
// room cannot be used as a map key. roomtag keys room labels by a proxy cell and, when
// that index is lost (a room moved, a map relocated, an index never saved), recovers
// the label from the anchors carried by the furniture inside the room. Zones keep a
// stable id and use a plain index.
//
// Features:
//
//   - Room and zone labels with a custom name, description, color, opacity, font size,
//     icon and offset.
//   - Anchor recovery and periodic reconciliation of room footprints.
//   - Frame computation with view culling, fading and load grace.
//   - File (YAML/JSON) and BadgerDB save backends.
//
// Usage:
//
//	svc, err := roomtag.New("./saves",
//		roomtag.WithAdapter(roomtag.AdapterFS),
//		roomtag.WithLogger(logger),
//	)
//
//	// Name the room that contains cell (2,2)
//	_, err = svc.Label(ctx, "colony", core.Cell{X: 2, Z: 2},
//		func(s *dialog.Session) error { s.SetName("Kitchen"); return nil },
//	)
package roomtag
