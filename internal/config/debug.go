package config

import "os"

func IsDebug() bool {
	return os.Getenv("VOXBOT_DEBUG") == "1"
}
