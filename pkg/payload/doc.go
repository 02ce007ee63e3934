// Package payload turns the raw data bag of an inbound push message into a
// flat, canonical Record.
//
// Push providers disagree on field names: the text of a message may arrive as
// "body", "alert", "mp_message", "twi_body" or "gcm.notification.body", and
// whole payloads are often wrapped as a JSON string under "data" or
// "message". The package removes those differences in three steps:
//
//   - Normalizer maps every legacy or vendor key onto one canonical key.
//   - Localizer replaces a {"locKey": ..., "locData": [...]} value of the
//     title, message and summaryText fields with text from the application's
//     string resources.
//   - Extractor walks the bag, unwraps nested JSON, flattens the
//     "notification" block and applies the two steps above to every field.
//
// Extraction never fails: malformed nested JSON is logged and the raw value
// is kept. Extracting an already extracted Record returns an equal Record.
//
//	ex := payload.NewExtractor(cfg,
//	    payload.WithLocalizer(payload.NewLocalizer(table)),
//	    payload.WithLogger(log),
//	)
//	rec := ex.Extract(ctx, payload.Bag{
//	    "twi_title": "Hi",
//	    "data":      `{"alert":"You have mail","badge":"2"}`,
//	})
//	// rec == Record{"title": "Hi", "message": "You have mail", "count": "2"}
package payload
