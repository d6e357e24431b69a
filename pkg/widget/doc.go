// Package widget provides the stateful inline widgets a display template can
// embed with {@name:args}.
//
// A Widget is created fresh for every display slot by its Factory, so state
// such as an animation phase is never shared between devices. ChargeFlow is
// the built-in charge bar with animated flow arrows.
package widget
