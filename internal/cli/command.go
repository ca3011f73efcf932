package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vocabdetect/internal/dataset"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/trainer"
	"vocabdetect/internal/vocab"
)

type commandContext struct {
	v       *viper.Viper
	opts    Options
	trainer *trainer.Trainer
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, opts Options) *cobra.Command {
	cc := &commandContext{
		v:       viper.New(),
		opts:    opts,
		trainer: trainer.New(opts.Runner, opts.Out),
	}

	rootCmd := &cobra.Command{
		Use:   "vocabctl",
		Short: "Dataset, training and vocabulary tools for the Korean object detector",
		Long: `vocabctl prepares YOLO datasets, drives training through the
ultralytics "yolo" command and edits the English to Korean tables.

Examples:
  vocabctl split --src coco128 --dst coco128_split
  vocabctl subset --n 80 --dst coco80
  vocabctl train --data coco128_split.yaml --epochs 50
  vocabctl export --formats onnx,tflite
  vocabctl vocab add cup 컵 keop`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return InitConfig(cc.v, flags.CfgFile)
		},
	}
	rootCmd.SetOut(opts.Out)

	rootCmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is ./.vocabctl.yaml or $HOME/.vocabctl.yaml)")

	rootCmd.AddCommand(
		cc.splitCommand(),
		cc.subsetCommand(),
		cc.verifyCommand(),
		cc.trainCommand(),
		cc.valCommand(),
		cc.exportCommand(),
		cc.predictCommand(),
		cc.vocabCommand(),
	)
	return rootCmd
}

// InitConfig initializes viper configuration
func InitConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".vocabctl")
	}

	// Environment variables
	v.SetEnvPrefix("VOCABCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	return nil
}

// bind maps every flag of cmd to "<prefix>.<flag>" in viper.
func (cc *commandContext) bind(cmd *cobra.Command, prefix string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = cc.v.BindPFlag(prefix+"."+f.Name, f)
	})
}

func (cc *commandContext) splitCommand() *cobra.Command {
	def := dataset.DefaultSplitOptions()
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a train2017 dataset into train and val",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dataset.Split(dataset.SplitOptions{
				Src:      cc.v.GetString("split.src"),
				Dst:      cc.v.GetString("split.dst"),
				ValRatio: cc.v.GetFloat64("split.val-ratio"),
				MinVal:   cc.v.GetInt("split.min-val"),
				Seed:     cc.v.GetUint64("split.seed"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cc.opts.Out, "Train: %d images\nVal:   %d images\n📝 Data config: %s\n", res.Train, res.Val, res.DataYAML)
			return nil
		},
	}
	cmd.Flags().String("src", def.Src, "source dataset with images/train2017")
	cmd.Flags().String("dst", def.Dst, "output dataset directory")
	cmd.Flags().Float64("val-ratio", def.ValRatio, "share of images used for validation")
	cmd.Flags().Int("min-val", def.MinVal, "minimum number of validation images")
	cmd.Flags().Uint64("seed", def.Seed, "shuffle seed")
	cc.bind(cmd, "split")
	return cmd
}

func (cc *commandContext) subsetCommand() *cobra.Command {
	def := dataset.DefaultSubsetOptions()
	cmd := &cobra.Command{
		Use:   "subset",
		Short: "Copy a random subset of images with their labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, yamlPath, err := dataset.Subset(dataset.SubsetOptions{
				Src:   cc.v.GetString("subset.src"),
				Split: cc.v.GetString("subset.split"),
				N:     cc.v.GetInt("subset.n"),
				Dst:   cc.v.GetString("subset.dst"),
				Seed:  cc.v.GetUint64("subset.seed"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cc.opts.Out, "✅ Done: %d images\n📝 Data config: %s\n", n, yamlPath)
			return nil
		},
	}
	cmd.Flags().String("src", def.Src, "source dataset")
	cmd.Flags().String("split", def.Split, "source split directory")
	cmd.Flags().Int("n", def.N, "number of images")
	cmd.Flags().String("dst", def.Dst, "output dataset directory")
	cmd.Flags().Uint64("seed", def.Seed, "sampling seed")
	cc.bind(cmd, "subset")
	return cmd
}

func (cc *commandContext) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <dataset-dir>",
		Short: "Count images and labels per split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := dataset.Verify(args[0])
			if err != nil {
				return err
			}
			splits := make([]string, 0, len(counts))
			for split := range counts {
				splits = append(splits, split)
			}
			sort.Strings(splits)
			for _, split := range splits {
				c := counts[split]
				fmt.Fprintf(cc.opts.Out, "%-6s %d images, %d labels\n", split+":", c.Images, c.Labels)
			}
			return nil
		},
	}
}

func (cc *commandContext) trainCommand() *cobra.Command {
	def := trainer.DefaultTrainOptions()
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a detector with yolo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.trainer.Train(cmd.Context(), trainer.TrainOptions{
				Data:   cc.v.GetString("train.data"),
				Model:  cc.v.GetString("train.model"),
				Epochs: cc.v.GetInt("train.epochs"),
				ImgSz:  cc.v.GetInt("train.imgsz"),
				Batch:  cc.v.GetInt("train.batch"),
				Name:   cc.v.GetString("train.name"),
				Device: cc.v.GetString("train.device"),
			})
		},
	}
	cmd.Flags().String("data", def.Data, "dataset YAML")
	cmd.Flags().String("model", def.Model, "base model")
	cmd.Flags().Int("epochs", def.Epochs, "number of epochs")
	cmd.Flags().Int("imgsz", def.ImgSz, "input image size")
	cmd.Flags().Int("batch", def.Batch, "batch size")
	cmd.Flags().String("name", def.Name, "run name")
	cmd.Flags().String("device", "", "cpu, cuda, mps (default: auto)")
	cc.bind(cmd, "train")
	return cmd
}

func (cc *commandContext) valCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "val",
		Short: "Validate trained weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.trainer.Val(cmd.Context(), cc.v.GetString("val.weights"))
		},
	}
	cmd.Flags().String("weights", trainer.DefaultWeights, "weights to validate")
	cc.bind(cmd, "val")
	return cmd
}

func (cc *commandContext) exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trained weights (onnx for the gocv backend)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.trainer.Export(cmd.Context(), cc.v.GetString("export.weights"), cc.v.GetStringSlice("export.formats"))
		},
	}
	cmd.Flags().String("weights", trainer.DefaultWeights, "weights to export")
	cmd.Flags().StringSlice("formats", []string{"onnx"}, "export formats")
	cc.bind(cmd, "export")
	return cmd
}

func (cc *commandContext) predictCommand() *cobra.Command {
	def := trainer.DefaultPredictOptions()
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run trained weights on a camera, image or video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.trainer.Predict(cmd.Context(), trainer.PredictOptions{
				Weights: cc.v.GetString("predict.weights"),
				Source:  cc.v.GetString("predict.source"),
				Conf:    cc.v.GetFloat64("predict.conf"),
			})
		},
	}
	cmd.Flags().String("weights", def.Weights, "weights to run")
	cmd.Flags().String("source", def.Source, "0 for webcam, or an image/video path")
	cmd.Flags().Float64("conf", def.Conf, "confidence threshold")
	cc.bind(cmd, "predict")
	return cmd
}

func (cc *commandContext) vocabCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Edit the translation tables on disk",
	}
	cmd.PersistentFlags().String("vocab", "vocab_mapping.json", "English to Korean table")
	cmd.PersistentFlags().String("romanization", "romanization.json", "English to romanization table")
	_ = cc.v.BindPFlag("vocab.path", cmd.PersistentFlags().Lookup("vocab"))
	_ = cc.v.BindPFlag("vocab.romanization", cmd.PersistentFlags().Lookup("romanization"))

	open := func() (*vocab.Table, error) {
		return vocab.Open(
			vocab.NewFileStore(cc.v.GetString("vocab.path")),
			vocab.NewFileStore(cc.v.GetString("vocab.romanization")),
			logger.Discard(),
		)
	}

	add := &cobra.Command{
		Use:   "add <english> <korean> [romanization]",
		Short: "Add or overwrite a mapping",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := open()
			if err != nil {
				return err
			}
			defer table.Close()

			m := vocab.Mapping{English: args[0], Korean: args[1]}
			if len(args) == 3 {
				m.Romanization = args[2]
			}
			if err := table.Add(contextOf(cmd), m); err != nil {
				return err
			}
			fmt.Fprintf(cc.opts.Out, "Added mapping: %s -> %s\n", strings.TrimSpace(m.English), strings.TrimSpace(m.Korean))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print every mapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := open()
			if err != nil {
				return err
			}
			defer table.Close()

			snapshot := table.Snapshot()
			mappings := snapshot.Mappings()
			keys := make([]string, 0, len(mappings))
			for k := range mappings {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				_, roman := snapshot.Lookup(k)
				fmt.Fprintf(cc.opts.Out, "%s\t%s\t%s\n", k, mappings[k], roman)
			}
			fmt.Fprintf(cc.opts.Out, "Total: %d\n", len(keys))
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
