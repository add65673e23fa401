package core

import "sync"

// Coordinator caches the latest DeviceProp and room map for one vacuum and
// fans out update notifications to subscribers.
type Coordinator struct {
	deviceID string

	propMutex  sync.RWMutex
	prop       DeviceProp
	currentMap int
	maps       map[int]RoomMap

	subscribersMutex sync.RWMutex
	updateChannels   []chan DeviceProp
}

// RoomMap is the room table of one saved floor map: segment id to room name.
type RoomMap struct {
	Rooms map[int]string
}

func NewCoordinator(deviceID string) *Coordinator {
	return &Coordinator{
		deviceID:   deviceID,
		currentMap: -1,
		maps:       make(map[int]RoomMap),
	}
}

func (c *Coordinator) DeviceID() string {
	return c.deviceID
}

// Update replaces the cached snapshot and notifies all subscribers.
func (c *Coordinator) Update(prop DeviceProp) {
	c.propMutex.Lock()
	c.prop = prop
	c.propMutex.Unlock()

	c.subscribersMutex.RLock()
	defer c.subscribersMutex.RUnlock()
	for _, ch := range c.updateChannels {
		ch := ch
		go func() {
			ch <- prop
		}()
	}
}

// Prop returns the last snapshot received from the device.
func (c *Coordinator) Prop() DeviceProp {
	c.propMutex.RLock()
	defer c.propMutex.RUnlock()
	return c.prop
}

// SetRooms installs the room table for a map and makes that map current.
func (c *Coordinator) SetRooms(mapID int, rooms map[int]string) {
	c.propMutex.Lock()
	defer c.propMutex.Unlock()
	c.maps[mapID] = RoomMap{Rooms: rooms}
	c.currentMap = mapID
}

// Rooms returns the room table of the current map, or nil if no map is known.
func (c *Coordinator) Rooms() map[int]string {
	c.propMutex.RLock()
	defer c.propMutex.RUnlock()
	m, ok := c.maps[c.currentMap]
	if !ok {
		return nil
	}
	return m.Rooms
}

// SubscribeToUpdates returns a channel that receives every snapshot passed
// to Update from now on.
func (c *Coordinator) SubscribeToUpdates() chan DeviceProp {
	c.subscribersMutex.Lock()
	defer c.subscribersMutex.Unlock()
	newUpdateChan := make(chan DeviceProp)
	c.updateChannels = append(c.updateChannels, newUpdateChan)
	return newUpdateChan
}
