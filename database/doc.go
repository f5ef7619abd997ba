/*
Package database provides a record collection on top of a bulk store.

A store (see package storage) only knows how to read and write the whole
row set. A Collection turns it into entries with attributes:

	coll := database.New(store)
	entry, err := coll.Add("A")
	if err != nil {
		return err
	}
	err = entry.Set("age", "35")
	...
	adults, err := coll.Select(func(e database.Entry) bool {
		ok, _ := e.Exists("age")
		return ok
	})

Every entry call reads the whole row set, and every Set writes it back.
Wrap the store with the decorators of the storage subpackages (sticky,
postponed, locked) to make this cheap and safe.

# Concurrency

Default serializes its own Add and Set calls. Two Default collections on
the same store are only safe if the store implements storage.Updater
(like locked.Locked does); otherwise concurrent adds may race, and the
last writer wins. Synchronized puts one lock around a collection and all
of its entries.
*/
package database
