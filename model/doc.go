// Package model defines the resource-allocation state shared by the rest of
// the engine: per-process claim and allocation matrices, the derived need
// matrix, and the total/available resource vectors.  A State is populated by
// a loader, derived once, and treated as an immutable snapshot by readers;
// hypothetical mutations go through Clone and Apply.
package model
