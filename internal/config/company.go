package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// CompanyInfo is the business identity printed on invoices. It is a
// singleton configuration record, not a stored entity.
type CompanyInfo struct {
	Name    string `mapstructure:"name" json:"name"`
	Address string `mapstructure:"address" json:"address"`
	City    string `mapstructure:"city" json:"city"`
	State   string `mapstructure:"state" json:"state"`
	Zip     string `mapstructure:"zip" json:"zip"`
	Email   string `mapstructure:"email" json:"email"`
	Phone   string `mapstructure:"phone" json:"phone"`
}

func DefaultCompanyInfo() CompanyInfo {
	return CompanyInfo{
		Name:    "Cabinworks Cleaning LLC",
		Address: "100 Lakeshore Dr",
		City:    "Branson",
		State:   "MO",
		Zip:     "65616",
		Email:   "billing@cabinworks.example",
		Phone:   "(555) 010-0100",
	}
}

// CompanyInfoHolder serves the current company info and hot-reloads it
// when company.yml changes on disk.
type CompanyInfoHolder struct {
	current atomic.Value // holds CompanyInfo
}

func NewCompanyInfoHolder() (*CompanyInfoHolder, error) {
	v := viper.New()

	v.SetConfigName("company")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/cabinbooks")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CABINBOOKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCompanyInfo()
	v.SetDefault("company.name", defaults.Name)
	v.SetDefault("company.address", defaults.Address)
	v.SetDefault("company.city", defaults.City)
	v.SetDefault("company.state", defaults.State)
	v.SetDefault("company.zip", defaults.Zip)
	v.SetDefault("company.email", defaults.Email)
	v.SetDefault("company.phone", defaults.Phone)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var info CompanyInfo
	if err := v.UnmarshalKey("company", &info); err != nil {
		return nil, err
	}
	if err := validateCompanyInfo(info); err != nil {
		return nil, err
	}

	holder := &CompanyInfoHolder{}
	holder.current.Store(info)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated CompanyInfo
		if err := v.UnmarshalKey("company", &updated); err != nil {
			log.Printf("[company-config] reload failed: %v", err)
			return
		}
		if err := validateCompanyInfo(updated); err != nil {
			log.Printf("[company-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
	})

	return holder, nil
}

func (h *CompanyInfoHolder) Current() CompanyInfo {
	return h.current.Load().(CompanyInfo)
}

func validateCompanyInfo(info CompanyInfo) error {
	if strings.TrimSpace(info.Name) == "" {
		return ErrCompanyNameRequired
	}
	return nil
}
