// Package ui draws the parameter panel and the debug overlay of the ebiten
// front-end. Everything here requires the ebiten build tag.
package ui
