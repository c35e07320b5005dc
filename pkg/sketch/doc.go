// Package sketch holds the parametric geometry of a footprint sketch: a
// parameter arena, the entities built on top of it and the constraints
// relating those entities. Entities refer to parameters by index; only a
// solver writes parameter values back.
package sketch
