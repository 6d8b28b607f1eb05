// Package sim runs the galaxy headless: a fixed number of ticks with
// sampled frames, metric series and step observers. It is the driver loop
// for batch runs; the live viewer in package viz drives ticks itself.
package sim
