package common

import (
	"os"
	"sync"
)

var (
	serviceName     string
	serviceInstance string
	serviceMetaOnce sync.Once
)

func GetServiceName() string {
	loadServiceMeta()
	return serviceName
}

func GetServiceInstance() string {
	loadServiceMeta()
	return serviceInstance
}

func loadServiceMeta() {
	serviceMetaOnce.Do(func() {
		serviceName = os.Getenv("SERVICE_NAME")
		if serviceName == "" {
			serviceName = "wagondepot"
		}
		serviceInstance = os.Getenv("SERVICE_INSTANCE")
		if serviceInstance == "" {
			if hostname, err := os.Hostname(); err == nil {
				serviceInstance = hostname
			}
		}
	})
}
