//go:build integration

package mongodb

// RecordsCollection exposes the records collection name to the external
// integration test package.
const RecordsCollection = recordsCollection
