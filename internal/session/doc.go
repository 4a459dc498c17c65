// Package session handles the CATcher session selector: the "org/dataRepo"
// pair the rest of the application operates against.
//
// A session string is parsed with ParseInfo, persisted through a Store backed
// by any KeyValueStore (YAML file, SQLite, or in-memory), and restored at
// startup so the last session can be resumed without prompting:
//
//	store := session.NewStore(kv)
//	info := session.ParseInfo("cs3203/catcher-data")
//	if err := store.Save(ctx, info.Organization, info.DataRepository); err != nil {
//	    return err
//	}
//
//	// later, possibly after a restart
//	info, err := store.Restore(ctx, active)
//
// The two keys are written one after the other. A crash between them can
// leave one updated and the other stale; both are rewritten on every session
// setup, before authentication starts.
package session
