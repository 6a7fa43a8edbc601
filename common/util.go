package common

import "os"

// Remove deletes the data file and its companion log file created by disk.NewDiskManager for
// dbName, ignoring a missing file. Tests use it to clean up after themselves.
func Remove(dbName string) {
	os.Remove(dbName)
	os.Remove(dbName + ".log")
}

func PanicIfErr(err error) {
	if err != nil {
		panic(err)
	}
}

// Contains tells whether arr contains x.
func Contains(arr []int, x int) bool {
	for _, n := range arr {
		if x == n {
			return true
		}
	}
	return false
}
