// Package stream serves a running simulation to browsers over a websocket.
//
// Each connected client receives one JSON FrameMessage per tick. The first
// frame after connecting, and the first after a restart, carries the particle
// colours; later frames carry positions only. Clients steer the simulation
// by sending Command objects such as {"cmd":"toggle"} or
// {"cmd":"restart","quality":2}.
package stream
