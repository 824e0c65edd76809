// pkg/seismic/singleflight.go

package seismic

import "sync"

type request struct {
	wg  sync.WaitGroup
	val *Brick
	err error
}

// controller coalesces concurrent loads of the same brick coordinate into
// one store read. A finished request is removed before waiters are woken,
// so a failed load is retried by the next caller instead of being cached.
type controller struct {
	sync.Mutex
	rs map[BrickCoordinate]*request
}

func (con *controller) execute(key BrickCoordinate, fn func() (*Brick, error)) (*Brick, error) {
	con.Lock()
	if con.rs == nil {
		con.rs = make(map[BrickCoordinate]*request)
	}
	if c, ok := con.rs[key]; ok {
		con.Unlock()
		c.wg.Wait()
		return c.val, c.err
	}
	c := new(request)
	c.wg.Add(1)
	con.rs[key] = c
	con.Unlock()

	c.val, c.err = fn()

	con.Lock()
	delete(con.rs, key)
	con.Unlock()
	c.wg.Done()

	return c.val, c.err
}
