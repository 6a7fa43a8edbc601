package main

import (
	"encoding/json"
	"helin/buffer"
	"helin/disk"
)

type demostruct struct {
	Num int
	Val string
}

func main() {
	dm, _, err := disk.NewDiskManager("sa")
	if err != nil {
		println(err.Error())
		return
	}
	sched := disk.NewDiskScheduler(dm, 8)
	pool := buffer.NewBufferPoolManager(32, sched, 2)

	for i := 0; i < 50; i++ {
		x := demostruct{Num: i, Val: "selam"}
		encoded, _ := json.Marshal(x)
		var data [4096]byte
		copy(data[:], encoded)
		data[4095] = byte('\n')

		g, err := buffer.NewPageWrite(pool)
		if err != nil {
			println(err.Error())
			continue
		}
		println(g.PageId())
		copy(g.GetDataMut(), data[:])
		g.Flush()
		g.Drop()
	}

	pool.FlushAllPages()
}
