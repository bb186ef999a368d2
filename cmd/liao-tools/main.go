package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liao-works/liao-tools/excel"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "liao-tools",
		Short:         "Shipping-document spreadsheet utilities",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newProcessCmd(), newConfigCmd())
	return root
}

func newProcessCmd() *cobra.Command {
	var (
		processType  string
		weightColumn int
		boxColumn    int
		noImages     bool
	)

	cmd := &cobra.Command{
		Use:   "process [input.xlsx]",
		Short: "Split merged regions of a packing list into per-row cells",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := excel.NewConfigStore()
			if err != nil {
				return err
			}
			cfg, err := store.Load(excel.ProcessType(processType))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("weight-column") {
				cfg.WeightColumn = weightColumn
			}
			if cmd.Flags().Changed("box-column") {
				cfg.BoxColumn = boxColumn
			}
			if noImages {
				cfg.CopyImages = false
			}

			result, err := excel.ProcessFile(args[0], cfg)
			if err != nil {
				return err
			}
			for _, line := range result.Logs {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", result.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&processType, "type", "t", string(excel.SeaRailWithImage), "process type: sea-rail-with-image, sea-rail-no-image or air-freight")
	cmd.Flags().IntVar(&weightColumn, "weight-column", 0, "override the 1-based weight column")
	cmd.Flags().IntVar(&boxColumn, "box-column", 0, "override the 1-based box column")
	cmd.Flags().BoolVar(&noImages, "no-images", false, "skip copying embedded images")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit stored process configurations",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSetCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [type]",
		Short: "Print one or all stored configurations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := excel.NewConfigStore()
			if err != nil {
				return err
			}
			configs, err := store.LoadAll()
			if err != nil {
				return err
			}
			print := func(cfg excel.ProcessConfig) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: weight column %d, box column %d, copy images %t\n",
					cfg.ProcessType, cfg.WeightColumn, cfg.BoxColumn, cfg.CopyImages)
			}
			if len(args) == 1 {
				cfg, ok := configs[excel.ProcessType(args[0])]
				if !ok {
					if cfg, err = excel.DefaultConfig(excel.ProcessType(args[0])); err != nil {
						return err
					}
				}
				print(cfg)
				return nil
			}
			for _, t := range []excel.ProcessType{excel.SeaRailWithImage, excel.SeaRailNoImage, excel.AirFreight} {
				if cfg, ok := configs[t]; ok {
					print(cfg)
				}
			}
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		weightColumn int
		boxColumn    int
		copyImages   bool
	)

	cmd := &cobra.Command{
		Use:   "set [type]",
		Short: "Store a configuration for a process type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := excel.NewConfigStore()
			if err != nil {
				return err
			}
			cfg, err := store.Load(excel.ProcessType(args[0]))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("weight-column") {
				cfg.WeightColumn = weightColumn
			}
			if cmd.Flags().Changed("box-column") {
				cfg.BoxColumn = boxColumn
			}
			if cmd.Flags().Changed("copy-images") {
				cfg.CopyImages = copyImages
			}
			if err := store.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "saved configuration for", cfg.ProcessType)
			return nil
		},
	}

	cmd.Flags().IntVar(&weightColumn, "weight-column", 0, "1-based weight column")
	cmd.Flags().IntVar(&boxColumn, "box-column", 0, "1-based box column")
	cmd.Flags().BoolVar(&copyImages, "copy-images", true, "copy embedded images")
	return cmd
}
