package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag binds a cli flag to a config key
type Flag struct {
	Config string
	Cli    string
}

type StringFlag struct {
	f *Flag
}

type IntFlag struct {
	f *Flag
}

type DurationFlag struct {
	f *Flag
}

type StringPFlag struct {
	f  *Flag
	sh string
}

func (f *StringFlag) Bind(cmd *cobra.Command, value, usage string) {
	cmd.PersistentFlags().String(f.f.Cli, value, usage)
	f.f.bind(cmd)
}

func (f *Flag) String() *StringFlag {
	return &StringFlag{f: f}
}

func (f *IntFlag) Bind(cmd *cobra.Command, value int, usage string) {
	cmd.PersistentFlags().Int(f.f.Cli, value, usage)
	f.f.bind(cmd)
}

func (f *Flag) Int() *IntFlag {
	return &IntFlag{f: f}
}

func (f *DurationFlag) Bind(cmd *cobra.Command, value time.Duration, usage string) {
	cmd.PersistentFlags().Duration(f.f.Cli, value, usage)
	f.f.bind(cmd)
}

func (f *Flag) Duration() *DurationFlag {
	return &DurationFlag{f: f}
}

func (f *StringPFlag) Bind(cmd *cobra.Command, value, usage string) {
	cmd.PersistentFlags().StringP(f.f.Cli, f.sh, value, usage)
	f.f.bind(cmd)
}

func (f *Flag) StringP(shorthand string) *StringPFlag {
	return &StringPFlag{f: f, sh: shorthand}
}

func (f *Flag) bind(cmd *cobra.Command) {
	if err := viper.BindPFlag(f.Config, cmd.PersistentFlags().Lookup(f.Cli)); err != nil {
		panic(err)
	}
}

func NewFlag(config, cli string) *Flag {
	return &Flag{
		Config: config,
		Cli:    cli,
	}
}
