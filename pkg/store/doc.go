// Package store persists named, normalized module sets.
//
// A curriculum imported once (from XLSX, CSV, ...) can be pushed to a shared
// store and pulled by other machines or server instances without access to the
// original spreadsheet. Two backends are provided: [MemoryStore] for tests and
// single-process use, and [MongoStore] backed by MongoDB.
//
//	st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: uri})
//	err = st.Save(ctx, store.Entry{Name: "bsc-informatik", Modules: mods})
//	e, err := st.Load(ctx, "bsc-informatik")
package store
