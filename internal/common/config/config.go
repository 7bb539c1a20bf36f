package config

// Config is implemented by every top level configuration struct.
type Config interface {
	Validate() error
}

// Path is a filesystem path.  A leading ~ is expanded to the user's home directory when decoded by viper.
type Path string

func (p Path) String() string {
	return string(p)
}
