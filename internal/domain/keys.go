package domain

// KeyPrefix namespaces every key this service writes or reads in the store.
const KeyPrefix = "chefboost:"
